package removebook

import (
	"github.com/stanleyamo/library-management-system/core"
)

// State is the book and the number of loans still open on it.
type State struct {
	Book        core.Book
	BookFound   bool
	ActiveLoans int
}

// Decide determines whether the book may be deleted.
//
// Business Rules:
//
//	GIVEN: a catalogued book without open loans
//	WHEN: RemoveBook is received from a librarian
//	THEN: the book is deleted; closed transactions and fines keep their denormalized data
//	ERROR: Forbidden if the actor is not a librarian
//	ERROR: NotFound if the book does not exist
//	ERROR: InvariantViolation while active transactions reference the book
func Decide(state State, command Command) core.DecisionResult[core.Book] {
	if failure := command.Actor.RequireLibrarian("remove books"); failure != nil {
		return core.FailureDecision[core.Book](failure)
	}

	if !state.BookFound {
		return core.FailureDecision[core.Book](core.BookNotFound(command.BookID))
	}

	if state.ActiveLoans > 0 {
		return core.FailureDecision[core.Book](
			core.NewFailure(core.KindInvariantViolation, "%q has %d active loans", state.Book.Title, state.ActiveLoans),
		)
	}

	return core.SuccessDecision(state.Book)
}
