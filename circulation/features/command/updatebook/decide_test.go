package updatebook_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/command/updatebook"
	"github.com/stanleyamo/library-management-system/core"
)

func ptr[T any](v T) *T {
	return &v
}

func bookState(total, available int) updatebook.State {
	return updatebook.State{
		Book: core.Book{
			ID:              uuid.New(),
			ISBN:            "9780441172719",
			Title:           "Dune",
			Author:          "Frank Herbert",
			TotalCopies:     total,
			AvailableCopies: available,
		},
		BookFound: true,
	}
}

func Test_Decide_TotalCopiesShiftAvailableCopies(t *testing.T) {
	// arrange
	state := bookState(3, 1)
	command := updatebook.BuildCommand(state.Book.ID, core.Librarian("lib-1"), core.BookPatch{TotalCopies: ptr(5)})

	// act
	result := updatebook.Decide(state, command)

	// assert
	require.True(t, result.IsSuccess())
	assert.Equal(t, 5, result.Value.TotalCopies)
	assert.Equal(t, 3, result.Value.AvailableCopies)
}

func Test_Decide_Failures(t *testing.T) {
	state := bookState(3, 1)
	other := core.Book{ID: uuid.New(), ISBN: "0-306-40615-2"}
	withCatalog := state
	withCatalog.Catalog = []core.Book{state.Book, other}

	testCases := []struct {
		name     string
		state    updatebook.State
		actor    core.Actor
		patch    core.BookPatch
		expected *core.Failure
	}{
		{name: "member", state: state, actor: core.Member("m-1"), patch: core.BookPatch{Title: ptr("X")}, expected: core.ErrForbidden},
		{name: "empty patch", state: state, actor: core.Librarian("lib-1"), expected: core.ErrValidation},
		{name: "not found", state: updatebook.State{}, actor: core.Librarian("lib-1"), patch: core.BookPatch{Title: ptr("X")}, expected: core.ErrNotFound},
		{name: "below copies on loan", state: state, actor: core.Librarian("lib-1"), patch: core.BookPatch{TotalCopies: ptr(1)}, expected: core.ErrInvariantViolation},
		{name: "blank author", state: state, actor: core.Librarian("lib-1"), patch: core.BookPatch{Author: ptr("")}, expected: core.ErrValidation},
		{name: "isbn of another book", state: withCatalog, actor: core.Librarian("lib-1"), patch: core.BookPatch{ISBN: ptr("0306406152")}, expected: core.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := updatebook.Decide(tc.state, updatebook.BuildCommand(tc.state.Book.ID, tc.actor, tc.patch))

			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}

func Test_Decide_KeepingOwnISBNIsAllowed(t *testing.T) {
	state := bookState(1, 1)
	state.Catalog = []core.Book{state.Book}

	result := updatebook.Decide(state, updatebook.BuildCommand(state.Book.ID, core.Librarian("lib-1"), core.BookPatch{ISBN: ptr("978-0441172719")}))

	assert.True(t, result.IsSuccess())
}
