// Package retry provides a small bounded-retry helper for transient store
// failures. Only errors the predicate accepts are retried; everything else
// surfaces immediately.
package retry

import (
	"context"
	"time"
)

// Policy bounds the retry loop.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultPolicy is three attempts with exponential backoff.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()
	if p.Attempts <= 0 {
		p.Attempts = def.Attempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	return p
}

// Delay returns the exponential backoff delay before the given attempt
// (1-based), capped at MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	p = p.normalize()
	if attempt <= 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 2; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs fn up to Attempts times, sleeping between attempts, as long as the
// predicate reports the error as retryable. Context cancellation stops the
// loop and returns the last error seen.
func Do(ctx context.Context, policy Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	policy = policy.normalize()

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if delay := policy.Delay(attempt); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}
