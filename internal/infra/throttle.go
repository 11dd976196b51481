// Package infra provides shared infrastructure components used across
// the application: request throttling and logger construction.
package infra

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle paces outbound requests. Wait is called after each request and
// blocks until the next one may be sent or ctx is cancelled.
type Throttle interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for a constant duration on every Wait.
type FixedDelay time.Duration

// Wait sleeps for d or until ctx is done.
func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay never waits. Used in tests and with --no-delay.
type NoDelay struct{}

// Wait returns immediately unless ctx is already done.
func (NoDelay) Wait(ctx context.Context) error { return ctx.Err() }

// Limiter allows a sustained request rate with bursts, backed by
// golang.org/x/time/rate.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter allows n requests per interval with a burst of n.
func NewLimiter(n int, interval time.Duration) *Limiter {
	if n <= 0 {
		n = 1
	}
	return &Limiter{lim: rate.NewLimiter(rate.Every(interval/time.Duration(n)), n)}
}

// Wait blocks until the limiter grants a token.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// NewThrottle returns the configured throttle. A positive limit gives a
// Limiter of limit requests per window, which replaces the delay.
// Otherwise it is NoDelay for a zero delay and FixedDelay for any other.
func NewThrottle(delay time.Duration, limit int, window time.Duration) Throttle {
	if limit > 0 {
		if window <= 0 {
			window = time.Minute
		}
		return NewLimiter(limit, window)
	}
	if delay <= 0 {
		return NoDelay{}
	}
	return FixedDelay(delay)
}
