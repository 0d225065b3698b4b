// Package retry wraps individual upstream calls with bounded exponential
// backoff. It retries only transient failures; validation and parse errors
// propagate immediately.
package retry

import (
	"context"
	"math/rand"
	"time"

	"storescout/internal/common/errors"
)

const (
	initialDelay = 200 * time.Millisecond
	maxDelay     = 3 * time.Second
)

// Do calls fn up to maxAttempts times. Delay before attempt n is
// min(initial * 2^(n-1), cap) scaled by a uniform jitter factor in [0.5, 1.0)
// so concurrent retries against the same upstream spread out. After the
// attempts are exhausted the last error is returned.
func Do[T any](ctx context.Context, maxAttempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoff(attempt - 1)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !errors.IsRetryable(err) {
			return zero, err
		}
	}

	return zero, lastErr
}

func backoff(retries int) time.Duration {
	delay := initialDelay << (retries - 1)
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(float64(delay) * jitter)
}
