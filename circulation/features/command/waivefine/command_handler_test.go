package waivefine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/command/waivefine"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func Test_CommandHandler_Handle_WaivesOnce(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	book := storetest.GivenBook(t, engine, "Dune", 1)
	loan := storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	fine := storetest.GivenPendingFine(t, engine, loan, book.Title, core.Dollars(4))
	handler := waivefine.NewCommandHandler(engine)
	command := waivefine.BuildCommand(fine.ID, core.Librarian("lib-1"), "hospital stay", waivedAt)

	// act
	waived, _, err := handler.Handle(ctx, command)
	_, result, againErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.FineWaived, waived.Status)
	assert.Equal(t, "lib-1", waived.WaivedBy)
	assert.Equal(t, "hospital stay", waived.WaiverReason)
	require.NotNil(t, waived.WaivedAt)
	assert.True(t, waivedAt.Equal(*waived.WaivedAt))
	assert.Equal(t, "4.00", waived.Amount.String(), "waiving never changes the amount")

	assert.ErrorIs(t, againErr, core.ErrAlreadyWaived)
	assert.True(t, result.Rejected)
}
