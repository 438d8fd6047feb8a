// Package retrypolicy gives every upstream-facing caller (text model,
// image model, persistence) one retry policy type, configured
// differently per caller, instead of bespoke backoff loops.
package retrypolicy

import (
	"context"
	"math/rand"
	"time"
)

// Policy is max_attempts, base_delay, factor, retryable_predicate.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
	Retryable   func(error) bool
}

// Image, Text and Persistence are the spec's documented per-component
// default policies.
var (
	Image = Policy{MaxAttempts: 3, BaseDelay: time.Second, Factor: 2.0}
	Text  = Policy{MaxAttempts: 2, BaseDelay: 500 * time.Millisecond, Factor: 2.0}
	Persistence = Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, Factor: 1.5}
)

// Do runs fn, retrying on retryable errors with exponential backoff and
// jitter up to p.MaxAttempts total attempts. Returns the last error if
// every attempt fails, or immediately if ctx is done or the error isn't
// retryable per p.Retryable.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = func(error) bool { return true }
	}

	var lastErr error
	delay := p.BaseDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		jittered := delay + time.Duration(rand.Int63n(int64(delay)/2+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jittered):
		}
		delay = time.Duration(float64(delay) * p.Factor)
	}

	return lastErr
}
