package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, ErrorTypeNone, meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(store.ErrConcurrencyConflict, store.ErrInvariantViolation)
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, ErrorTypeNone, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_BusinessFailureIsNotRetried(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return core.NewFailure(core.KindNoCopiesAvailable, "no copies")
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, ErrorTypeBusinessFailure, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_OtherErrorsFailFast(t *testing.T) {
	callCount := 0
	boom := errors.New("boom")

	fn := func(_ context.Context) error {
		callCount++
		return boom
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, ErrorTypeOther, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetriesExhausted(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return store.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(context.Background(), fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
	)

	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, ErrorTypeConcurrencyConflict, meta.LastErrorType)
	assert.GreaterOrEqual(t, meta.TotalDelay, 3*time.Millisecond) // 1ms + 2ms
}

func Test_RetryWithExponentialBackoff_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fn := func(_ context.Context) error {
		cancel()
		return store.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, ErrorTypeContextCanceled, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(context.Background(), fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(context.Background(), fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)
}

func Test_ExecuteWithRetry_ClassifiesOutcomes(t *testing.T) {
	t.Run("success after a conflict", func(t *testing.T) {
		calls := 0

		record, result, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", store.ErrConcurrencyConflict
			}
			return "written", nil
		}, WithBaseDelay(time.Millisecond))

		assert.NoError(t, err)
		assert.Equal(t, "written", record)
		assert.False(t, result.Rejected)
		assert.Equal(t, 2, result.RetryAttempts)
	})

	t.Run("business rejection", func(t *testing.T) {
		record, result, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (string, error) {
			return "ignored", core.NewFailure(core.KindAlreadyReturned, "returned")
		})

		assert.ErrorIs(t, err, core.ErrAlreadyReturned)
		assert.Empty(t, record)
		assert.True(t, result.Rejected)
		assert.Equal(t, ErrorTypeBusinessFailure, result.LastErrorType)
	})

	t.Run("fault", func(t *testing.T) {
		_, result, err := ExecuteWithRetry(context.Background(), func(_ context.Context) (int, error) {
			return 0, store.ErrQueryingFailed
		})

		assert.ErrorIs(t, err, store.ErrQueryingFailed)
		assert.False(t, result.Rejected)
		assert.Equal(t, ErrorTypeOther, result.LastErrorType)
	})
}
