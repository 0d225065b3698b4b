package retry

import (
	"context"
	"testing"
	"time"

	stderrors "storescout/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transientErr() error {
	return stderrors.NewSourceTimeoutError("poi-search")
}

func permanentErr() error {
	return stderrors.NewSourceBadPayloadError("poi-search", assert.AnError)
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	got, err := Do(context.Background(), 3, func(ctx context.Context) (string, error) {
		attempts++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetriesTransientUntilSuccess(t *testing.T) {
	attempts := 0
	got, err := Do(context.Background(), 3, func(ctx context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, transientErr()
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), 3, func(ctx context.Context) (int, error) {
		attempts++
		return 0, transientErr()
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts, "must make exactly maxAttempts attempts")
	assert.Equal(t, stderrors.ErrCodeSourceTimeout, stderrors.AsStandard(err).Code)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), 5, func(ctx context.Context) (int, error) {
		attempts++
		return 0, permanentErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancelStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, 10, func(ctx context.Context) (int, error) {
			attempts++
			if attempts == 1 {
				cancel()
			}
			return 0, transientErr()
		})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not observe cancellation")
	}
}

func TestBackoff_BoundedAndJittered(t *testing.T) {
	for retries := 1; retries <= 10; retries++ {
		d := backoff(retries)
		assert.GreaterOrEqual(t, d, initialDelay/2)
		assert.LessOrEqual(t, d, maxDelay)
	}
}
