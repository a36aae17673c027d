package core

import (
	"github.com/google/uuid"
)

// TransactionStatus is the lifecycle state of a loan.
type TransactionStatus string

const (
	TransactionActive   TransactionStatus = "active"
	TransactionReturned TransactionStatus = "returned"
)

// ParseTransactionStatus maps a status name to a TransactionStatus.
func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case TransactionActive, TransactionReturned:
		return TransactionStatus(s), nil
	default:
		return "", NewFailure(KindValidation, "unknown transaction status %q", s)
	}
}

// Transaction is one loan of one copy of a book. It is never deleted.
type Transaction struct {
	ID           uuid.UUID
	BookID       uuid.UUID
	UserID       string
	BorrowDate   Date
	DueDate      Date
	ReturnDate   *Date
	Status       TransactionStatus
	Fine         Money
	ExtendedFee  Money
	RenewalCount int
}

// IsActive reports whether the loan is still open.
func (t Transaction) IsActive() bool {
	return t.Status == TransactionActive
}

// IsOverdueOn reports whether an open loan is past its due date on the given day.
func (t Transaction) IsOverdueOn(today Date) bool {
	return t.IsActive() && today.After(t.DueDate)
}

// CurrentFineOn returns the fine charged at return for a closed loan, or the
// projected fine for an open one.
func (t Transaction) CurrentFineOn(today Date) Money {
	if !t.IsActive() {
		return t.Fine
	}

	return ProjectedFine(t.DueDate, today)
}
