package listfines_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/query/listfines"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	book := storetest.GivenBook(t, engine, "Dune", 3)
	first := storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	second := storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	other := storetest.GivenLoan(t, engine, book, "m-2", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))

	paid := storetest.GivenPendingFine(t, engine, first, book.Title, core.Dollars(2))
	storetest.GivenPendingFine(t, engine, second, book.Title, core.Dollars(3))
	storetest.GivenPendingFine(t, engine, other, book.Title, core.Dollars(7))

	_, err = engine.Fines().MarkPaid(ctx, paid.ID, time.Now(), core.Payment{})
	require.NoError(t, err)

	handler := listfines.NewQueryHandler(engine)

	// act
	own, ownErr := handler.Handle(ctx, listfines.BuildQuery(core.Member("m-1"), "", ""))
	pending, pendingErr := handler.Handle(ctx, listfines.BuildQuery(core.Librarian("lib-1"), "", core.FinePending))
	_, forbiddenErr := handler.Handle(ctx, listfines.BuildQuery(core.Member("m-1"), "m-2", ""))

	// assert
	require.NoError(t, ownErr)
	assert.Equal(t, 2, own.Count)
	assert.Equal(t, "5.00", own.Total.String())

	require.NoError(t, pendingErr)
	assert.Equal(t, 2, pending.Count)
	assert.Equal(t, "10.00", pending.Total.String())

	assert.ErrorIs(t, forbiddenErr, core.ErrForbidden)
}
