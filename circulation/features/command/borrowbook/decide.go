package borrowbook

import (
	"github.com/stanleyamo/library-management-system/core"
)

// State is what Decide needs to know about the book and the borrower.
type State struct {
	Book         core.Book
	BookFound    bool
	ActiveLoans  int
	OverdueLoans int
	PendingFines core.Money
}

// Decide determines whether the actor may borrow the book and on which terms.
//
// Business Rules:
//
//	GIVEN: a book and a borrower with their open loans
//	WHEN: BorrowBook is received
//	THEN: the loan terms (due date, extended fee) are returned
//	ERROR: ValidationError if the actor is a librarian
//	ERROR: NotFound if the book does not exist
//	ERROR: ValidationError if the period or explicit terms are invalid
//	ERROR: NoCopiesAvailable if every copy is on loan
//	ERROR: LoanLimitReached if the borrower already has MaxActiveLoansPerUser open loans
//	ERROR: OutstandingObligations if the borrower has an overdue loan or an unpaid fine
func Decide(state State, command Command) core.DecisionResult[core.BorrowTerms] {
	if command.Actor.IsLibrarian() {
		return core.FailureDecision[core.BorrowTerms](core.NewFailure(core.KindValidation, "librarians cannot borrow books"))
	}

	if command.Actor.UserID == "" {
		return core.FailureDecision[core.BorrowTerms](core.NewFailure(core.KindValidation, "user id is required"))
	}

	if !state.BookFound {
		return core.FailureDecision[core.BorrowTerms](core.BookNotFound(command.BookID))
	}

	terms, failure := command.Period.TermsFrom(command.BorrowDate)
	if failure != nil {
		return core.FailureDecision[core.BorrowTerms](failure)
	}

	if !state.Book.IsAvailable() {
		return core.FailureDecision[core.BorrowTerms](
			core.NewFailure(core.KindNoCopiesAvailable, "all %d copies of %q are on loan", state.Book.TotalCopies, state.Book.Title),
		)
	}

	if state.ActiveLoans >= core.MaxActiveLoansPerUser {
		return core.FailureDecision[core.BorrowTerms](
			core.NewFailure(core.KindLoanLimitReached, "user %s already has %d active loans", command.Actor.UserID, state.ActiveLoans),
		)
	}

	if state.OverdueLoans > 0 {
		return core.FailureDecision[core.BorrowTerms](
			core.NewFailure(core.KindOutstandingObligations, "user %s has %d overdue loans, return them before borrowing", command.Actor.UserID, state.OverdueLoans),
		)
	}

	if state.PendingFines.IsPositive() {
		return core.FailureDecision[core.BorrowTerms](
			core.NewFailure(core.KindOutstandingObligations, "user %s has unpaid fines totaling %s, pay them before borrowing", command.Actor.UserID, state.PendingFines),
		)
	}

	return core.SuccessDecision(terms)
}
