package addbook

import (
	"strings"

	"github.com/stanleyamo/library-management-system/core"
)

// State is the current catalog, used for the duplicate ISBN check.
type State struct {
	Catalog []core.Book
}

// Decide validates the draft and returns it with surrounding whitespace removed.
//
// Business Rules:
//
//	GIVEN: a catalog
//	WHEN: AddBook is received from a librarian
//	THEN: the cleaned draft is created
//	ERROR: Forbidden if the actor is not a librarian
//	ERROR: ValidationError if a field is invalid or the ISBN is already catalogued
func Decide(state State, command Command) core.DecisionResult[core.BookDraft] {
	if failure := command.Actor.RequireLibrarian("add books"); failure != nil {
		return core.FailureDecision[core.BookDraft](failure)
	}

	draft := clean(command.Draft)

	if failure := core.ValidateBookDraft(draft); failure != nil {
		return core.FailureDecision[core.BookDraft](failure)
	}

	isbn := core.NormalizeISBN(draft.ISBN)
	for _, book := range state.Catalog {
		if core.NormalizeISBN(book.ISBN) == isbn {
			return core.FailureDecision[core.BookDraft](
				core.NewFailure(core.KindValidation, "a book with ISBN %s already exists", draft.ISBN),
			)
		}
	}

	return core.SuccessDecision(draft)
}

func clean(d core.BookDraft) core.BookDraft {
	d.ISBN = strings.TrimSpace(d.ISBN)
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Genre = strings.TrimSpace(d.Genre)
	d.Publisher = strings.TrimSpace(d.Publisher)
	d.CallNumber = strings.TrimSpace(d.CallNumber)
	d.CoverImage = strings.TrimSpace(d.CoverImage)

	return d
}
