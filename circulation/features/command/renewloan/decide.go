package renewloan

import (
	"github.com/stanleyamo/library-management-system/core"
)

// State is the loan to be renewed.
type State struct {
	Transaction      core.Transaction
	TransactionFound bool
}

// Renewal is the check-and-set the handler writes.
type Renewal struct {
	ExpectedRenewals int
	NewDueDate       core.Date
}

// Decide determines whether the loan may be renewed and its new due date.
//
// Business Rules:
//
//	GIVEN: an active loan that is not overdue
//	WHEN: RenewLoan is received
//	THEN: the due date moves by the requested days (RenewalDays by default) and the renewal count goes up by one
//	ERROR: ValidationError if the requested days are outside [1, MaxRenewalDays]
//	ERROR: NotFound if the transaction does not exist
//	ERROR: Forbidden if a member renews another user's loan
//	ERROR: AlreadyReturned if the loan is closed
//	ERROR: LoanOverdue if today is past the due date
//	ERROR: RenewalLimitReached after MaxRenewals renewals
func Decide(state State, command Command) core.DecisionResult[Renewal] {
	days := command.extension()
	if days < 1 || days > core.MaxRenewalDays {
		return core.FailureDecision[Renewal](
			core.NewFailure(core.KindValidation, "a renewal must be between 1 and %d days, got %d", core.MaxRenewalDays, days),
		)
	}

	if !state.TransactionFound {
		return core.FailureDecision[Renewal](core.TransactionNotFound(command.TransactionID))
	}

	txn := state.Transaction

	if !command.Actor.CanActFor(txn.UserID) {
		return core.FailureDecision[Renewal](
			core.NewFailure(core.KindForbidden, "transaction %s belongs to another user", txn.ID),
		)
	}

	if !txn.IsActive() {
		return core.FailureDecision[Renewal](core.NewFailure(core.KindAlreadyReturned, "transaction %s is closed", txn.ID))
	}

	if txn.IsOverdueOn(command.Today) {
		return core.FailureDecision[Renewal](
			core.NewFailure(core.KindLoanOverdue, "loan was due on %s; return it first", txn.DueDate),
		)
	}

	if txn.RenewalCount >= core.MaxRenewals {
		return core.FailureDecision[Renewal](
			core.NewFailure(core.KindRenewalLimitReached, "loan was already renewed %d times", txn.RenewalCount),
		)
	}

	return core.SuccessDecision(Renewal{
		ExpectedRenewals: txn.RenewalCount,
		NewDueDate:       txn.DueDate.AddDays(days),
	})
}
