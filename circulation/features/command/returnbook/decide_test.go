package returnbook_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/command/returnbook"
	"github.com/stanleyamo/library-management-system/core"
)

var recordedAt = time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC)

func activeLoanState() returnbook.State {
	book := core.Book{ID: uuid.New(), Title: "Dune", TotalCopies: 1}

	return returnbook.State{
		Transaction: core.Transaction{
			ID:         uuid.New(),
			BookID:     book.ID,
			UserID:     "m-1",
			BorrowDate: core.NewDate(2025, 3, 1),
			DueDate:    core.NewDate(2025, 3, 15),
			Status:     core.TransactionActive,
		},
		TransactionFound: true,
		Book:             book,
		BookFound:        true,
	}
}

func Test_Decide_OnTimeReturn_HasNoCharge(t *testing.T) {
	// arrange
	state := activeLoanState()
	command := returnbook.BuildCommand(state.Transaction.ID, core.Member("m-1"), core.NewDate(2025, 3, 15), recordedAt)

	// act
	result := returnbook.Decide(state, command)

	// assert
	require.True(t, result.IsSuccess())
	assert.True(t, result.Value.Fine.IsZero())
	assert.Nil(t, result.Value.Charge)
}

func Test_Decide_LateReturn_ChargesOnePerDay(t *testing.T) {
	// arrange
	state := activeLoanState()
	returnDate := core.NewDate(2025, 3, 20)
	command := returnbook.BuildCommand(state.Transaction.ID, core.Member("m-1"), returnDate, recordedAt)

	// act
	result := returnbook.Decide(state, command)

	// assert
	require.True(t, result.IsSuccess())
	assert.Equal(t, "5.00", result.Value.Fine.String())

	charge := result.Value.Charge
	require.NotNil(t, charge)
	assert.Equal(t, state.Transaction.ID, charge.TransactionID)
	assert.Equal(t, "m-1", charge.UserID)
	assert.Equal(t, "Dune", charge.BookTitle)
	assert.Equal(t, "5.00", charge.Amount.String())
	assert.Equal(t, core.FineReasonLateReturn, charge.Reason)
	assert.Equal(t, state.Transaction.DueDate, charge.DueDate)
	require.NotNil(t, charge.ReturnDate)
	assert.Equal(t, returnDate, *charge.ReturnDate)
	assert.Equal(t, recordedAt, charge.CreatedAt)
}

func Test_Decide_LibrarianMayReturnAnyLoan(t *testing.T) {
	state := activeLoanState()
	command := returnbook.BuildCommand(state.Transaction.ID, core.Librarian("lib-1"), core.NewDate(2025, 3, 10), recordedAt)

	result := returnbook.Decide(state, command)

	assert.True(t, result.IsSuccess())
}

func Test_Decide_Failures(t *testing.T) {
	returned := activeLoanState()
	returnDate := core.NewDate(2025, 3, 14)
	returned.Transaction.Status = core.TransactionReturned
	returned.Transaction.ReturnDate = &returnDate

	bookGone := activeLoanState()
	bookGone.BookFound = false

	testCases := []struct {
		name       string
		state      returnbook.State
		actor      core.Actor
		returnDate core.Date
		expected   *core.Failure
	}{
		{name: "transaction not found", state: returnbook.State{}, actor: core.Member("m-1"), returnDate: core.NewDate(2025, 3, 10), expected: core.ErrNotFound},
		{name: "another member", state: activeLoanState(), actor: core.Member("m-2"), returnDate: core.NewDate(2025, 3, 10), expected: core.ErrForbidden},
		{name: "already returned", state: returned, actor: core.Member("m-1"), returnDate: core.NewDate(2025, 3, 16), expected: core.ErrAlreadyReturned},
		{name: "book gone", state: bookGone, actor: core.Member("m-1"), returnDate: core.NewDate(2025, 3, 10), expected: core.ErrInvariantViolation},
		{name: "return before borrow", state: activeLoanState(), actor: core.Member("m-1"), returnDate: core.NewDate(2025, 2, 28), expected: core.ErrValidation},
		{name: "missing return date", state: activeLoanState(), actor: core.Member("m-1"), expected: core.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			command := returnbook.BuildCommand(tc.state.Transaction.ID, tc.actor, tc.returnDate, recordedAt)

			result := returnbook.Decide(tc.state, command)

			assert.False(t, result.IsSuccess())
			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
