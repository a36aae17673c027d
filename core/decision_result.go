package core

// DecisionResult represents the outcome of a business decision in a Decide function.
// On success it carries the value the handler has to persist; on failure it carries
// the Failure explaining why nothing may be written.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// SuccessDecision(value) or FailureDecision(failure).
type DecisionResult[T any] struct {
	Outcome string // "success" or "failure"
	Value   T
	Err     *Failure
}

const (
	successOutcome = "success"
	failureOutcome = "failure"
)

// SuccessDecision creates a DecisionResult indicating an allowed state change.
func SuccessDecision[T any](value T) DecisionResult[T] {
	return DecisionResult[T]{
		Outcome: successOutcome,
		Value:   value,
	}
}

// FailureDecision creates a DecisionResult indicating a business rule violation.
func FailureDecision[T any](failure *Failure) DecisionResult[T] {
	return DecisionResult[T]{
		Outcome: failureOutcome,
		Err:     failure,
	}
}

// IsSuccess reports whether the decision allows the state change.
func (r DecisionResult[T]) IsSuccess() bool {
	return r.Outcome == successOutcome
}

// HasError returns the failure as an error if there is one, otherwise nil.
func (r DecisionResult[T]) HasError() error {
	if r.Outcome == failureOutcome {
		return r.Err
	}

	return nil
}
