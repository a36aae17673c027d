package updatebook

import (
	"github.com/stanleyamo/library-management-system/core"
)

// State is the book being edited and, when the ISBN changes, the rest of the catalog.
type State struct {
	Book      core.Book
	BookFound bool
	Catalog   []core.Book
}

// Decide checks that the patched book is still valid.
//
// Business Rules:
//
//	GIVEN: a catalogued book
//	WHEN: UpdateBook is received from a librarian
//	THEN: the patch is applied
//	ERROR: Forbidden if the actor is not a librarian
//	ERROR: ValidationError if the patch is empty, makes the book invalid, or reuses another book's ISBN
//	ERROR: NotFound if the book does not exist
//	ERROR: InvariantViolation if TotalCopies would drop below the copies on loan
func Decide(state State, command Command) core.DecisionResult[core.Book] {
	if failure := command.Actor.RequireLibrarian("update books"); failure != nil {
		return core.FailureDecision[core.Book](failure)
	}

	if command.Patch.IsEmpty() {
		return core.FailureDecision[core.Book](core.NewFailure(core.KindValidation, "no fields to update"))
	}

	if !state.BookFound {
		return core.FailureDecision[core.Book](core.BookNotFound(command.BookID))
	}

	patched, err := command.Patch.ApplyTo(state.Book)
	if err != nil {
		failure, ok := core.AsFailure(err)
		if !ok {
			failure = core.NewFailure(core.KindInvariantViolation, "%s", err.Error())
		}

		return core.FailureDecision[core.Book](failure)
	}

	if failure := core.ValidateBookDraft(patched.Draft()); failure != nil {
		return core.FailureDecision[core.Book](failure)
	}

	if command.Patch.ISBN != nil {
		isbn := core.NormalizeISBN(patched.ISBN)
		for _, other := range state.Catalog {
			if other.ID != patched.ID && core.NormalizeISBN(other.ISBN) == isbn {
				return core.FailureDecision[core.Book](
					core.NewFailure(core.KindValidation, "a book with ISBN %s already exists", patched.ISBN),
				)
			}
		}
	}

	return core.SuccessDecision(patched)
}
