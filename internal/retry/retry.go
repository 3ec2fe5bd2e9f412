// Package retry wraps a single external call with bounded
// exponential-backoff retry.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Kind classifies a failure for retry purposes.
type Kind int

const (
	// KindFatal failures are returned immediately; retrying a malformed
	// request wastes quota and time.
	KindFatal Kind = iota
	// KindTransient failures (server-side faults) retry after a flat delay.
	KindTransient
	// KindRateLimited failures back off exponentially up to the cap.
	KindRateLimited
)

// Classifier maps an operation error onto a Kind.
type Classifier func(error) Kind

// Policy bounds the retry behavior of Do.
type Policy struct {
	MaxRetries int           // attempts beyond the first call
	BaseDelay  time.Duration // flat delay for transient faults, backoff base for rate limits
	MaxDelay   time.Duration // backoff cap

	// Sleep overrides the delay between attempts. Nil means a real sleep
	// that respects context cancellation. Tests inject a recorder here.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Backoff returns the delay before retrying a rate-limited attempt
// (0-based), capped at MaxDelay.
func (p Policy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if d > p.MaxDelay || d <= 0 {
		d = p.MaxDelay
	}
	return d
}

func (p Policy) pause(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do invokes op, retrying rate-limited and transient failures according to
// the policy. Fatal failures and exhausted budgets surface as errors whose
// text callers may show directly; Do never panics.
func Do[T any](ctx context.Context, p Policy, classify Classifier, op func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}

		switch classify(err) {
		case KindRateLimited:
			if attempt == p.MaxRetries {
				return zero, fmt.Errorf("rate limit exceeded after %d retries: %w", p.MaxRetries, err)
			}
			if serr := p.pause(ctx, p.Backoff(attempt)); serr != nil {
				return zero, serr
			}
		case KindTransient:
			if attempt == p.MaxRetries {
				return zero, fmt.Errorf("service error after %d retries: %w", p.MaxRetries, err)
			}
			if serr := p.pause(ctx, p.BaseDelay); serr != nil {
				return zero, serr
			}
		default:
			return zero, fmt.Errorf("unexpected error: %w", err)
		}
	}
	return zero, fmt.Errorf("retry budget exhausted")
}
