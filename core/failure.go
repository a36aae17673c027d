package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// FailureKind classifies an expected business failure.
type FailureKind string

const (
	KindNotFound            FailureKind = "NotFound"
	KindInvariantViolation  FailureKind = "InvariantViolation"
	KindNoCopiesAvailable   FailureKind = "NoCopiesAvailable"
	KindAlreadyReturned     FailureKind = "AlreadyReturned"
	KindAlreadyPaid         FailureKind = "AlreadyPaid"
	KindValidation          FailureKind = "ValidationError"
	KindForbidden           FailureKind = "Forbidden"
	KindLoanLimitReached    FailureKind = "LoanLimitReached"
	KindRenewalLimitReached FailureKind = "RenewalLimitReached"
	KindLoanOverdue         FailureKind = "LoanOverdue"
	KindAlreadyWaived       FailureKind = "AlreadyWaived"

	// KindOutstandingObligations blocks new loans while the borrower has an overdue loan or an unpaid fine.
	KindOutstandingObligations FailureKind = "OutstandingObligations"
)

// Failure is an expected business outcome that prevented an operation, e.g. no copies left.
// It always carries a human-readable Reason.
//
// Failures compare by Kind with errors.Is, so errors.Is(err, ErrNoCopiesAvailable)
// matches any Failure of that kind regardless of its reason.
type Failure struct {
	Kind   FailureKind
	Reason string
}

// Sentinel failures for matching with errors.Is.
var (
	ErrNotFound            = &Failure{Kind: KindNotFound}
	ErrInvariantViolation  = &Failure{Kind: KindInvariantViolation}
	ErrNoCopiesAvailable   = &Failure{Kind: KindNoCopiesAvailable}
	ErrAlreadyReturned     = &Failure{Kind: KindAlreadyReturned}
	ErrAlreadyPaid         = &Failure{Kind: KindAlreadyPaid}
	ErrValidation          = &Failure{Kind: KindValidation}
	ErrForbidden           = &Failure{Kind: KindForbidden}
	ErrLoanLimitReached    = &Failure{Kind: KindLoanLimitReached}
	ErrRenewalLimitReached = &Failure{Kind: KindRenewalLimitReached}
	ErrLoanOverdue         = &Failure{Kind: KindLoanOverdue}
	ErrAlreadyWaived       = &Failure{Kind: KindAlreadyWaived}

	ErrOutstandingObligations = &Failure{Kind: KindOutstandingObligations}
)

// NewFailure builds a Failure with a formatted reason.
func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Reason == "" {
		return string(f.Kind)
	}

	return string(f.Kind) + ": " + f.Reason
}

// Is matches any Failure of the same kind.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}

	return other.Kind == f.Kind
}

// AsFailure extracts a Failure from err, if there is one in its chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}

	return nil, false
}

// IsFailure reports whether err is an expected business failure rather than a fault.
func IsFailure(err error) bool {
	_, ok := AsFailure(err)
	return ok
}

// BookNotFound reports an unknown book id.
func BookNotFound(id uuid.UUID) *Failure {
	return NewFailure(KindNotFound, "book %s not found", id)
}

// TransactionNotFound reports an unknown transaction id.
func TransactionNotFound(id uuid.UUID) *Failure {
	return NewFailure(KindNotFound, "transaction %s not found", id)
}

// FineNotFound reports an unknown fine id.
func FineNotFound(id uuid.UUID) *Failure {
	return NewFailure(KindNotFound, "fine %s not found", id)
}
