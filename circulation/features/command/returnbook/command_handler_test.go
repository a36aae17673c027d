package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/command/returnbook"
	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func givenEngine(t *testing.T) *memengine.Engine {
	t.Helper()

	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	return engine
}

func Test_CommandHandler_Handle_LateReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 1)
	loan := storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	handler := returnbook.NewCommandHandler(engine)

	// act
	returned, result, err := handler.Handle(ctx, returnbook.BuildCommand(loan.ID, core.Member("m-1"), core.NewDate(2025, 3, 20), recordedAt))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Rejected)

	assert.Equal(t, core.TransactionReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, core.NewDate(2025, 3, 20), *returned.ReturnDate)
	assert.Equal(t, "5.00", returned.Fine.String())

	stored, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies)

	fines, err := engine.Fines().ListByUser(ctx, "m-1")
	require.NoError(t, err)
	require.Len(t, fines, 1)
	assert.Equal(t, "5.00", fines[0].Amount.String())
	assert.Equal(t, core.FinePending, fines[0].Status)
	assert.Equal(t, "Dune", fines[0].BookTitle)
	assert.Equal(t, loan.ID, fines[0].TransactionID)
}

func Test_CommandHandler_Handle_OnTimeReturn_CreatesNoFine(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 2)
	loan := storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	handler := returnbook.NewCommandHandler(engine)

	// act
	returned, _, err := handler.Handle(ctx, returnbook.BuildCommand(loan.ID, core.Member("m-1"), core.NewDate(2025, 3, 15), recordedAt))

	// assert
	require.NoError(t, err)
	assert.True(t, returned.Fine.IsZero())

	fines, err := engine.Fines().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, fines)

	stored, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableCopies)
}

func Test_CommandHandler_Handle_SecondReturnIsRejected(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 1)
	loan := storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	handler := returnbook.NewCommandHandler(engine)
	command := returnbook.BuildCommand(loan.ID, core.Member("m-1"), core.NewDate(2025, 3, 20), recordedAt)

	_, _, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	_, result, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyReturned)
	assert.True(t, result.Rejected)

	stored, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies, "copies must not be incremented twice")

	fines, err := engine.Fines().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, fines, 1, "the fine must not be charged twice")
}

func Test_CommandHandler_Handle_UnknownTransaction(t *testing.T) {
	handler := returnbook.NewCommandHandler(givenEngine(t))

	_, result, err := handler.Handle(context.Background(), returnbook.BuildCommand(uuid.New(), core.Member("m-1"), core.NewDate(2025, 3, 20), recordedAt))

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.True(t, result.Rejected)
}

func Test_CommandHandler_Handle_RetriesConcurrencyConflicts(t *testing.T) {
	// arrange
	inner := givenEngine(t)
	book := storetest.GivenBook(t, inner, "Dune", 1)
	loan := storetest.GivenLoan(t, inner, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	engine := storetest.NewConflictingEngine(inner, 1)
	handler := returnbook.NewCommandHandler(engine, returnbook.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))

	// act
	_, result, err := handler.Handle(context.Background(), returnbook.BuildCommand(loan.ID, core.Member("m-1"), core.NewDate(2025, 3, 16), recordedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.RetryAttempts)
	assert.Equal(t, shell.ErrorTypeNone, result.LastErrorType)
}
