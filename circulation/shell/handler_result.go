package shell

import "time"

// HandlerResult carries the business outcome class and retry metadata of one command execution
// without coupling the handler to specific observability implementations.
type HandlerResult struct {
	// Rejected indicates that a business rule refused the command and nothing was written.
	// This is an expected outcome, not a fault.
	Rejected bool

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in backoff delays, excluding execution time.
	TotalRetryDelay time.Duration

	// LastErrorType describes the final error seen by the retry loop.
	// Values: "none", "concurrency_conflict", "business_failure", "context_canceled",
	// "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted is true when every attempt ended in a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for a command whose writes were committed.
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, false)
}

// NewRejectedResult creates a HandlerResult for a command refused by a business rule.
func NewRejectedResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, true)
}

// NewErrorResult creates a HandlerResult for a command that failed with a fault.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return resultFrom(retryMetrics, false)
}

func resultFrom(retryMetrics RetryMetrics, rejected bool) HandlerResult {
	return HandlerResult{
		Rejected:         rejected,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
