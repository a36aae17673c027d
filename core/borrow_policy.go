package core

import "math"

// PeriodKind is the borrowing period a member selects.
type PeriodKind string

const (
	PeriodTwoWeeks PeriodKind = "2weeks"
	PeriodOneMonth PeriodKind = "1month"
	PeriodExtended PeriodKind = "extended"

	// PeriodExplicit carries a due date and fee computed by the caller; they are validated, not derived.
	PeriodExplicit PeriodKind = "explicit"
)

const (
	twoWeeksDays      = 14
	oneMonthDays      = 30
	extendedBlockDays = 7

	// MinExtendedDays and MaxExtendedDays bound an extended loan; other values are clamped.
	MinExtendedDays = 31
	MaxExtendedDays = 90

	// RenewalDays is how far a renewal moves the due date unless the borrower asks for
	// another length within [1, MaxRenewalDays].
	RenewalDays    = 14
	MaxRenewalDays = 30

	// MaxRenewals is how often a single loan may be renewed.
	MaxRenewals = 2

	// MaxActiveLoansPerUser caps the open loans of one member.
	MaxActiveLoansPerUser = 5
)

// ExtendedBlockFee is charged per started week beyond one month.
var ExtendedBlockFee = Dollars(5)

// BorrowPeriod is the caller's choice of how long to keep a book.
type BorrowPeriod struct {
	Kind         PeriodKind
	ExtendedDays int   // only for PeriodExtended
	DueDate      Date  // only for PeriodExplicit
	ExtendedFee  Money // only for PeriodExplicit
}

// TwoWeeks selects the 14-day period.
func TwoWeeks() BorrowPeriod {
	return BorrowPeriod{Kind: PeriodTwoWeeks}
}

// OneMonth selects the 30-day period.
func OneMonth() BorrowPeriod {
	return BorrowPeriod{Kind: PeriodOneMonth}
}

// Extended selects an extended period of the given number of days.
func Extended(days int) BorrowPeriod {
	return BorrowPeriod{Kind: PeriodExtended, ExtendedDays: days}
}

// Explicit passes a precomputed due date and fee through validation.
func Explicit(dueDate Date, extendedFee Money) BorrowPeriod {
	return BorrowPeriod{Kind: PeriodExplicit, DueDate: dueDate, ExtendedFee: extendedFee}
}

// ParsePeriodKind maps a selection name to a PeriodKind.
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch PeriodKind(s) {
	case PeriodTwoWeeks, PeriodOneMonth, PeriodExtended, PeriodExplicit:
		return PeriodKind(s), nil
	default:
		return "", NewFailure(KindValidation, "unknown borrow period %q", s)
	}
}

// BorrowTerms are the dates and fee a new loan is created with.
type BorrowTerms struct {
	BorrowDate  Date
	DueDate     Date
	ExtendedFee Money
}

// ClampExtendedDays forces n into [MinExtendedDays, MaxExtendedDays].
func ClampExtendedDays(n int) int {
	return min(max(n, MinExtendedDays), MaxExtendedDays)
}

// ExtendedFee is the surcharge for an extended loan of n days (clamped): a flat fee
// per started 7-day block beyond day 30.
func ExtendedFee(n int) Money {
	days := ClampExtendedDays(n)
	blocks := int64(math.Ceil(float64(days-oneMonthDays) / extendedBlockDays))

	return ExtendedBlockFee.Times(blocks)
}

// TermsFrom computes the terms of a loan starting on borrowDate.
func (p BorrowPeriod) TermsFrom(borrowDate Date) (BorrowTerms, *Failure) {
	if borrowDate.IsZero() {
		return BorrowTerms{}, NewFailure(KindValidation, "borrow date is required")
	}

	switch p.Kind {
	case PeriodTwoWeeks:
		return BorrowTerms{BorrowDate: borrowDate, DueDate: borrowDate.AddDays(twoWeeksDays)}, nil

	case PeriodOneMonth:
		return BorrowTerms{BorrowDate: borrowDate, DueDate: borrowDate.AddDays(oneMonthDays)}, nil

	case PeriodExtended:
		days := ClampExtendedDays(p.ExtendedDays)
		return BorrowTerms{
			BorrowDate:  borrowDate,
			DueDate:     borrowDate.AddDays(days),
			ExtendedFee: ExtendedFee(days),
		}, nil

	case PeriodExplicit:
		if p.DueDate.IsZero() {
			return BorrowTerms{}, NewFailure(KindValidation, "due date is required")
		}

		if p.DueDate.Before(borrowDate) {
			return BorrowTerms{}, NewFailure(KindValidation, "due date %s is before borrow date %s", p.DueDate, borrowDate)
		}

		if p.ExtendedFee.IsNegative() {
			return BorrowTerms{}, NewFailure(KindValidation, "extended fee must not be negative")
		}

		return BorrowTerms{BorrowDate: borrowDate, DueDate: p.DueDate, ExtendedFee: p.ExtendedFee}, nil

	default:
		return BorrowTerms{}, NewFailure(KindValidation, "unknown borrow period %q", p.Kind)
	}
}
