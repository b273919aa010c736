package graph

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound Graph requests with a token bucket and honors
// throttling penalties reported by the service. One Limiter is shared by
// all streams in a run so concurrent extractions respect the tenant-wide
// quota collectively.
type Limiter struct {
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewLimiter creates a limiter allowing requestsPerSecond sustained with
// the given burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a request may be sent: first any penalty window set by
// RecordThrottle, then the token bucket. Returns early on ctx cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordThrottle sets a penalty window after a 429 so that every stream
// backs off, not just the one that was throttled.
func (l *Limiter) RecordThrottle(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(l.retryAt) {
		l.retryAt = until
	}
}
