package returnbook

import (
	"github.com/stanleyamo/library-management-system/core"
)

// State is the loan being returned and the book it refers to.
type State struct {
	Transaction      core.Transaction
	TransactionFound bool
	Book             core.Book
	BookFound        bool
}

// Decision is what the handler has to write for an allowed return.
// Charge is nil when the book came back on time.
type Decision struct {
	ReturnDate core.Date
	Fine       core.Money
	Charge     *core.FineCharge
}

// Decide determines whether the loan can be closed and which fine it incurs.
//
// Business Rules:
//
//	GIVEN: an active transaction
//	WHEN: ReturnBook is received
//	THEN: the transaction is closed with the overdue fine; a positive fine also creates a pending Fine
//	ERROR: NotFound if the transaction does not exist
//	ERROR: Forbidden if a member returns another user's loan
//	ERROR: AlreadyReturned if the transaction is no longer active
//	ERROR: InvariantViolation if the book of the loan is gone
//	ERROR: ValidationError if the return date is before the borrow date
func Decide(state State, command Command) core.DecisionResult[Decision] {
	if !state.TransactionFound {
		return core.FailureDecision[Decision](core.TransactionNotFound(command.TransactionID))
	}

	txn := state.Transaction

	if !command.Actor.CanActFor(txn.UserID) {
		return core.FailureDecision[Decision](
			core.NewFailure(core.KindForbidden, "transaction %s belongs to another user", txn.ID),
		)
	}

	if !txn.IsActive() {
		return core.FailureDecision[Decision](
			core.NewFailure(core.KindAlreadyReturned, "transaction %s was returned on %s", txn.ID, returnedOn(txn)),
		)
	}

	if !state.BookFound {
		return core.FailureDecision[Decision](
			core.NewFailure(core.KindInvariantViolation, "book %s of transaction %s does not exist", txn.BookID, txn.ID),
		)
	}

	if command.ReturnDate.IsZero() {
		return core.FailureDecision[Decision](core.NewFailure(core.KindValidation, "return date is required"))
	}

	if command.ReturnDate.Before(txn.BorrowDate) {
		return core.FailureDecision[Decision](
			core.NewFailure(core.KindValidation, "return date %s is before borrow date %s", command.ReturnDate, txn.BorrowDate),
		)
	}

	decision := Decision{
		ReturnDate: command.ReturnDate,
		Fine:       core.OverdueFine(txn.DueDate, command.ReturnDate),
	}

	if decision.Fine.IsPositive() {
		returnDate := command.ReturnDate
		decision.Charge = &core.FineCharge{
			TransactionID: txn.ID,
			UserID:        txn.UserID,
			BookTitle:     state.Book.Title,
			Amount:        decision.Fine,
			Reason:        core.FineReasonLateReturn,
			DueDate:       txn.DueDate,
			ReturnDate:    &returnDate,
			CreatedAt:     command.RecordedAt,
		}
	}

	return core.SuccessDecision(decision)
}

func returnedOn(txn core.Transaction) string {
	if txn.ReturnDate == nil {
		return "an unknown date"
	}

	return txn.ReturnDate.String()
}
