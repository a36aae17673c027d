package core

import (
	"time"

	"github.com/google/uuid"
)

// FineStatus is the settlement state of a fine.
type FineStatus string

const (
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
	FineWaived  FineStatus = "waived"
)

// FineReasonLateReturn is the reason recorded for overdue fines.
const FineReasonLateReturn = "Late return"

// ParseFineStatus maps a status name to a FineStatus.
func ParseFineStatus(s string) (FineStatus, error) {
	switch FineStatus(s) {
	case FinePending, FinePaid, FineWaived:
		return FineStatus(s), nil
	default:
		return "", NewFailure(KindValidation, "unknown fine status %q", s)
	}
}

// Fine is a monetary penalty tied to one transaction. Its amount never changes after creation.
type Fine struct {
	ID               uuid.UUID
	TransactionID    uuid.UUID
	UserID           string
	BookTitle        string
	Amount           Money
	Reason           string
	Status           FineStatus
	DueDate          Date
	ReturnDate       *Date
	CreatedAt        time.Time
	PaidAt           *time.Time
	PaymentMethod    string
	PaymentReference string
	WaivedAt         *time.Time
	WaivedBy         string
	WaiverReason     string
}

// IsPending reports whether the fine is still owed.
func (f Fine) IsPending() bool {
	return f.Status == FinePending
}

// FineCharge is everything needed to create a pending Fine.
type FineCharge struct {
	TransactionID uuid.UUID
	UserID        string
	BookTitle     string
	Amount        Money
	Reason        string
	DueDate       Date
	ReturnDate    *Date
	CreatedAt     time.Time
}

// Payment describes how a fine was settled. Both fields are optional.
type Payment struct {
	Method    string
	Reference string
}

// Waiver records who forgave a fine and why.
type Waiver struct {
	By     string
	Reason string
}

// FineSummary aggregates fines of one user or of the whole library.
type FineSummary struct {
	TotalPending Money
	TotalPaid    Money
	TotalWaived  Money
	PendingCount int
	Count        int
}

// SummarizeFines folds fines into a FineSummary.
func SummarizeFines(fines []Fine) FineSummary {
	var s FineSummary

	for _, f := range fines {
		s.Count++

		switch f.Status {
		case FinePending:
			s.TotalPending = s.TotalPending.Add(f.Amount)
			s.PendingCount++
		case FinePaid:
			s.TotalPaid = s.TotalPaid.Add(f.Amount)
		case FineWaived:
			s.TotalWaived = s.TotalWaived.Add(f.Amount)
		}
	}

	return s
}
