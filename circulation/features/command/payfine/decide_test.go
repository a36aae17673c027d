package payfine_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stanleyamo/library-management-system/circulation/features/command/payfine"
	"github.com/stanleyamo/library-management-system/core"
)

var paidAt = time.Date(2025, 3, 21, 10, 0, 0, 0, time.UTC)

func fineWithStatus(status core.FineStatus) payfine.State {
	return payfine.State{
		Fine: core.Fine{
			ID:     uuid.New(),
			UserID: "m-1",
			Amount: core.Dollars(5),
			Status: status,
		},
		FineFound: true,
	}
}

func Test_Decide_PendingFine_TrimsPaymentDetails(t *testing.T) {
	// arrange
	state := fineWithStatus(core.FinePending)
	command := payfine.BuildCommand(state.Fine.ID, core.Member("m-1"), core.Payment{Method: " card ", Reference: " r-1\n"}, paidAt)

	// act
	result := payfine.Decide(state, command)

	// assert
	assert.True(t, result.IsSuccess())
	assert.Equal(t, core.Payment{Method: "card", Reference: "r-1"}, result.Value)
}

func Test_Decide_Failures(t *testing.T) {
	testCases := []struct {
		name     string
		state    payfine.State
		actor    core.Actor
		expected *core.Failure
	}{
		{name: "not found", state: payfine.State{}, actor: core.Member("m-1"), expected: core.ErrNotFound},
		{name: "another member", state: fineWithStatus(core.FinePending), actor: core.Member("m-2"), expected: core.ErrForbidden},
		{name: "already paid", state: fineWithStatus(core.FinePaid), actor: core.Member("m-1"), expected: core.ErrAlreadyPaid},
		{name: "waived", state: fineWithStatus(core.FineWaived), actor: core.Librarian("lib-1"), expected: core.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := payfine.Decide(tc.state, payfine.BuildCommand(tc.state.Fine.ID, tc.actor, core.Payment{}, paidAt))

			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
