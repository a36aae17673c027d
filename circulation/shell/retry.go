package shell

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes how a retried call went.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

// RetryWithExponentialBackoff runs fn until it succeeds, fails with a non-retryable error,
// or maxAttempts is reached.
//
// Retry schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms (plus up to 30% jitter).
//
// Only store.ErrConcurrencyConflict is retried. Every retry re-runs the whole
// load -> decide -> write cycle, so a lost race is decided again on fresh data.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{}, err
		}
	}

	var metrics RetryMetrics
	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(config, attempt)

			select {
			case <-time.After(delay):
				metrics.TotalDelay += delay
			case <-ctx.Done():
				metrics.LastErrorType = ErrorTypeOf(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts++

		lastErr = fn(ctx)
		metrics.LastErrorType = ErrorTypeOf(lastErr)

		if lastErr == nil || !isRetryableError(lastErr) {
			return metrics, lastErr
		}
	}

	metrics.RetriesExhausted = true

	return metrics, lastErr
}

// backoffDelay is baseDelay * 2^(attempt-1) plus jitter.
func backoffDelay(config *retryConfig, attempt int) time.Duration {
	delay := config.baseDelay * time.Duration(1<<(attempt-1))
	jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // jitter needs no crypto randomness

	return delay + time.Duration(jitter)
}

// isRetryableError reports whether a retry can change the outcome.
// Timeouts are not retried: retrying during overload only makes it worse.
func isRetryableError(err error) bool {
	return errors.Is(err, store.ErrConcurrencyConflict)
}

// ErrorTypeOf classifies err for metrics labels.
func ErrorTypeOf(err error) string {
	switch {
	case err == nil:
		return ErrorTypeNone
	case errors.Is(err, store.ErrConcurrencyConflict):
		return ErrorTypeConcurrencyConflict
	case core.IsFailure(err):
		return ErrorTypeBusinessFailure
	case errors.Is(err, context.Canceled):
		return ErrorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeContextDeadlineExceeded
	default:
		return ErrorTypeOther
	}
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, including the first one.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter added as a fraction of each backoff delay.
// Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// ExecuteWithRetry runs one load -> decide -> write attempt per call of execute, retrying
// concurrency conflicts, and classifies the outcome into a HandlerResult.
func ExecuteWithRetry[R any](
	ctx context.Context,
	execute func(ctx context.Context) (R, error),
	options ...RetryOption,
) (R, HandlerResult, error) {
	var record R

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		written, execErr := execute(retryCtx)
		if execErr != nil {
			return execErr
		}

		record = written

		return nil
	}, options...)

	var zero R

	switch {
	case err == nil:
		return record, NewSuccessResult(retryMetrics), nil
	case core.IsFailure(err):
		return zero, NewRejectedResult(retryMetrics), err
	default:
		return zero, NewErrorResult(retryMetrics), err
	}
}
