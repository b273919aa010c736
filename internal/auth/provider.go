// Package auth acquires and caches Azure AD access tokens using the OAuth2
// client-credential flow. The cached token is the only mutable state shared
// across concurrent extractions, so refresh is single-flight behind a lock.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/microsoft"
)

// refreshMargin is the remaining-lifetime threshold below which a cached
// token is refreshed instead of handed out. Keeps long extractions from
// racing token expiry mid-request.
const refreshMargin = 60 * time.Second

// Credentials identifies the confidential client application.
// Immutable, supplied at startup.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Error is a fatal credential-exchange failure: invalid secret, missing
// admin consent, tenant mismatch. It is never retried — the run must stop.
type Error struct {
	Code        string // AADSTS error code when the identity provider sent one
	Description string
	Err         error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth: token exchange rejected (%s): %s", e.Code, e.Description)
	}

	return fmt.Sprintf("auth: token exchange failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Provider performs the client-credential exchange and caches the resulting
// token for the process lifetime. Concurrent callers share one in-flight
// exchange: the lock is held for the duration of the network call, so
// late arrivals get the freshly cached token instead of issuing duplicates.
type Provider struct {
	conf       *clientcredentials.Config
	httpClient *http.Client
	logger     *slog.Logger

	// now is the clock, injectable for expiry tests.
	now func() time.Time

	mu  chan struct{} // capacity-1 semaphore so waiting honors ctx cancellation
	tok *oauth2.Token
}

// NewProvider creates a token provider for the given application credentials.
// httpClient bounds the exchange request; nil uses the oauth2 default.
func NewProvider(creds Credentials, httpClient *http.Client, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}

	return &Provider{
		conf: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     microsoft.AzureADEndpoint(creds.TenantID).TokenURL,
			Scopes:       creds.Scopes,
		},
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
		mu:         make(chan struct{}, 1),
	}
}

// Token returns a bearer token with at least refreshMargin of lifetime left,
// performing the client-credential exchange when the cache is empty or near
// expiry. Exchange rejection surfaces as *Error and is not retried here:
// credential problems are not transient.
func (p *Provider) Token(ctx context.Context) (string, error) {
	select {
	case p.mu <- struct{}{}:
	case <-ctx.Done():
		return "", fmt.Errorf("auth: waiting for token: %w", ctx.Err())
	}
	defer func() { <-p.mu }()

	if p.tok != nil && p.tok.Expiry.Sub(p.now()) > refreshMargin {
		return p.tok.AccessToken, nil
	}

	tok, err := p.exchange(ctx)
	if err != nil {
		return "", err
	}

	p.tok = tok

	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next Token call performs a fresh
// exchange. Called by the HTTP client after a 401 to recover from
// server-side revocation ahead of the recorded expiry.
func (p *Provider) Invalidate() {
	select {
	case p.mu <- struct{}{}:
	default:
		// An exchange is in flight; its result supersedes the stale token.
		return
	}
	defer func() { <-p.mu }()

	p.tok = nil
	p.logger.Debug("cached token invalidated")
}

// exchange performs one client-credential token request. Callers hold the
// provider lock.
func (p *Provider) exchange(ctx context.Context) (*oauth2.Token, error) {
	p.logger.Info("acquiring access token",
		slog.String("token_url", p.conf.TokenURL),
	)

	if p.httpClient != nil {
		// The oauth2 package's documented mechanism for a custom client.
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	tok, err := p.conf.Token(ctx)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			p.logger.Error("token exchange rejected",
				slog.String("error_code", rerr.ErrorCode),
				slog.String("description", rerr.ErrorDescription),
			)

			return nil, &Error{
				Code:        rerr.ErrorCode,
				Description: rerr.ErrorDescription,
				Err:         err,
			}
		}

		return nil, &Error{Err: err}
	}

	p.logger.Debug("access token acquired",
		slog.Time("expiry", tok.Expiry),
	)

	return tok, nil
}
