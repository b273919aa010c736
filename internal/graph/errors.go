// Package graph provides an HTTP client for the Microsoft Graph API with
// rate limiting, automatic retry, and error classification, plus the typed
// lookups the connector needs: sites, drives, items, and worksheet ranges.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, graph.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("graph: bad request")
	ErrUnauthorized = errors.New("graph: unauthorized")
	ErrForbidden    = errors.New("graph: forbidden")
	ErrNotFound     = errors.New("graph: not found")
	ErrConflict     = errors.New("graph: conflict")
	ErrThrottled    = errors.New("graph: throttled")
	ErrServerError  = errors.New("graph: server error")

	// ErrRetriesExhausted marks a request that kept failing transiently
	// until the retry budget was spent.
	ErrRetriesExhausted = errors.New("graph: retries exhausted")
)

// APIError carries the provider's structured diagnostics for a failed
// request: the HTTP status, the Graph error code and message from the JSON
// error envelope, and the request-tracking id from the response headers.
// It wraps a sentinel error for errors.Is checks.
type APIError struct {
	StatusCode int
	Code       string // Graph error code, e.g. "itemNotFound"
	Message    string
	RequestID  string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	detail := e.Message
	if e.Code != "" {
		detail = e.Code + ": " + e.Message
	}

	if e.RequestID != "" {
		return fmt.Sprintf("graph: HTTP %d (request-id: %s): %s", e.StatusCode, e.RequestID, detail)
	}

	return fmt.Sprintf("graph: HTTP %d: %s", e.StatusCode, detail)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// errorEnvelope mirrors the Graph API JSON error body:
// {"error": {"code": "...", "message": "..."}}.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorBodyLimit caps how much of an error response body is retained.
const errorBodyLimit = 2000

// newAPIError builds an APIError from an error response. The Graph JSON
// envelope is parsed when present; otherwise the raw body (truncated) is
// kept as the message so diagnostics are never silently dropped.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		RequestID:  requestID(resp),
		Err:        classifyStatus(resp.StatusCode),
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message

		return apiErr
	}

	msg := string(body)
	if len(msg) > errorBodyLimit {
		msg = msg[:errorBodyLimit] + "…"
	}

	apiErr.Message = msg

	return apiErr
}

// requestID extracts the request-tracking id from response headers.
// SharePoint-backed endpoints use x-ms-request-id; most others request-id.
func requestID(resp *http.Response) string {
	if id := resp.Header.Get("request-id"); id != "" {
		return id
	}

	return resp.Header.Get("x-ms-request-id")
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrThrottled
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}

// isRetryable reports whether the given HTTP status code should be retried.
func isRetryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
