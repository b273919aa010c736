package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	backoffFactor  = 2.0
	jitterFraction = 0.5
	userAgent      = "graphsheet/0.1"
)

// TokenSource provides OAuth2 bearer tokens. Defined at the consumer (graph
// package) per "accept interfaces, return structs"; the auth package
// provides the real implementation. Invalidate drops any cached token so
// the next Token call performs a fresh exchange.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// RetryPolicy bounds recovery from transient failures: how many retries are
// attempted and the exponential backoff window between them.
type RetryPolicy struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy matches the configuration defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     5,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     60 * time.Second,
	}
}

// Client is an HTTP client for the Microsoft Graph API. It handles request
// construction, authentication, rate limiting, retry with exponential
// backoff, and error classification. Every attempt is bounded by the
// injected http.Client's timeout; a timed-out attempt counts as transient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	limiter    *Limiter
	retry      RetryPolicy
	logger     *slog.Logger

	// sleepFunc is called to wait between retries. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Graph API client.
// baseURL is typically "https://graph.microsoft.com/v1.0".
// limiter may be nil to disable request pacing.
func NewClient(
	baseURL string,
	httpClient *http.Client,
	token TokenSource,
	limiter *Limiter,
	retry RetryPolicy,
	logger *slog.Logger,
) *Client {
	if token == nil {
		panic("graph: NewClient requires a TokenSource")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// Paths are joined with a leading slash; a trailing slash on the base
	// URL would double it.
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      token,
		limiter:    limiter,
		retry:      retry,
		logger:     logger,
		sleepFunc:  timeSleep,
	}
}

// Do executes an HTTP request against the Graph API. The path is appended
// to the client's base URL. The caller is responsible for closing the
// response body on success. Retries re-send the same body reader, so only
// nil-body requests (all the read-side endpoints here) are retry-safe.
//
// Transient failures (network errors, timeouts, 429, 5xx) are retried up to
// the policy budget, honoring Retry-After when the service provides it. A
// 401 triggers exactly one token refresh and immediate retry; a second 401
// surfaces as an APIError wrapping ErrUnauthorized. All other non-2xx
// responses fail fast with the provider's diagnostics attached.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	url := c.baseURL + path

	var (
		attempt   int
		refreshed bool
	)

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("graph: request canceled: %w", err)
			}
		}

		tok, err := c.token.Token(ctx)
		if err != nil {
			// Credential failures are fatal, never retried.
			return nil, fmt.Errorf("graph: obtaining token: %w", err)
		}

		resp, err := c.doOnce(ctx, method, url, body, tok)
		if err != nil {
			// Context cancellation is not retryable.
			if ctx.Err() != nil {
				return nil, fmt.Errorf("graph: request canceled: %w", ctx.Err())
			}

			// Network errors and per-attempt timeouts are retryable.
			if attempt < c.retry.MaxRetries {
				backoff := c.calcBackoff(attempt)
				c.logger.Warn("retrying after network error",
					slog.String("method", method),
					slog.String("path", path),
					slog.Int("attempt", attempt+1),
					slog.Duration("backoff", backoff),
					slog.String("error", err.Error()),
				)

				if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
					return nil, fmt.Errorf("graph: request canceled: %w", sleepErr)
				}

				attempt++

				continue
			}

			return nil, fmt.Errorf("graph: %s %s: %w after %d attempts: %v",
				method, path, ErrRetriesExhausted, attempt+1, err)
		}

		// 2xx — success.
		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			c.logger.Debug("request succeeded",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
			)

			return resp, nil
		}

		// Read and close body for error responses.
		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		apiErr := newAPIError(resp, errBody)

		// A single 401 can be a token-expiry race: refresh once and retry
		// immediately. A recurrence is a real credential problem.
		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			refreshed = true

			c.logger.Warn("unauthorized response, refreshing token",
				slog.String("method", method),
				slog.String("path", path),
				slog.String("request_id", apiErr.RequestID),
			)

			c.token.Invalidate()

			continue
		}

		if isRetryable(resp.StatusCode) && attempt < c.retry.MaxRetries {
			backoff := c.retryBackoff(resp, attempt)

			if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
				c.limiter.RecordThrottle(backoff)
			}

			c.logger.Warn("retrying after HTTP error",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)

			if err := c.sleepFunc(ctx, backoff); err != nil {
				return nil, fmt.Errorf("graph: request canceled: %w", err)
			}

			attempt++

			continue
		}

		if isRetryable(resp.StatusCode) {
			c.logger.Error("request failed after retries",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempts", attempt+1),
			)

			return nil, fmt.Errorf("graph: %s %s: %w after %d attempts: %w",
				method, path, ErrRetriesExhausted, attempt+1, apiErr)
		}

		return nil, apiErr
	}
}

// doOnce executes a single HTTP request (no retry). Each attempt carries a
// fresh client-request-id so failures can be correlated with service-side
// logs.
func (c *Client) doOnce(ctx context.Context, method, url string, body io.Reader, tok string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("client-request-id", uuid.NewString())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// retryBackoff returns the backoff duration for a retryable response.
// The server's Retry-After value wins when present and parseable.
func (c *Client) retryBackoff(resp *http.Response, attempt int) time.Duration {
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return c.calcBackoff(attempt)
}

// calcBackoff computes exponential backoff with ±50% jitter. Jitter keeps
// concurrent streams from retrying in lockstep after a shared throttle.
func (c *Client) calcBackoff(attempt int) time.Duration {
	backoff := float64(c.retry.InitialBackoff) * math.Pow(backoffFactor, float64(attempt))
	if backoff > float64(c.retry.MaxBackoff) {
		backoff = float64(c.retry.MaxBackoff)
	}

	jitter := backoff * jitterFraction * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto rand
	backoff += jitter

	return time.Duration(backoff)
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Client.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
