package removebook_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stanleyamo/library-management-system/circulation/features/command/removebook"
	"github.com/stanleyamo/library-management-system/core"
)

func Test_Decide(t *testing.T) {
	book := core.Book{ID: uuid.New(), Title: "Dune", TotalCopies: 2, AvailableCopies: 2}

	testCases := []struct {
		name     string
		state    removebook.State
		actor    core.Actor
		expected *core.Failure
	}{
		{name: "no open loans", state: removebook.State{Book: book, BookFound: true}, actor: core.Librarian("lib-1")},
		{name: "member", state: removebook.State{Book: book, BookFound: true}, actor: core.Member("m-1"), expected: core.ErrForbidden},
		{name: "not found", state: removebook.State{}, actor: core.Librarian("lib-1"), expected: core.ErrNotFound},
		{name: "open loans", state: removebook.State{Book: book, BookFound: true, ActiveLoans: 1}, actor: core.Librarian("lib-1"), expected: core.ErrInvariantViolation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := removebook.Decide(tc.state, removebook.BuildCommand(book.ID, tc.actor))

			if tc.expected == nil {
				assert.True(t, result.IsSuccess())
				return
			}

			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
