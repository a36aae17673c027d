package checkavailability_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/query/checkavailability"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	book := storetest.GivenBook(t, engine, "Dune", 1)
	handler := checkavailability.NewQueryHandler(engine)

	before, err := handler.Handle(ctx, checkavailability.BuildQuery(book.ID))
	require.NoError(t, err)

	storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))

	// act
	after, err := handler.Handle(ctx, checkavailability.BuildQuery(book.ID))

	// assert
	require.NoError(t, err)
	assert.True(t, before.Available)
	assert.Equal(t, 1, before.AvailableCopies)

	assert.False(t, after.Available)
	assert.Equal(t, 0, after.AvailableCopies)
	assert.Equal(t, 1, after.TotalCopies)
	assert.Equal(t, 1, after.CopiesOnLoan)
}

func Test_QueryHandler_Handle_UnknownBook(t *testing.T) {
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	_, err = checkavailability.NewQueryHandler(engine).Handle(context.Background(), checkavailability.BuildQuery(uuid.New()))

	assert.ErrorIs(t, err, core.ErrNotFound)
}
