package finesummary_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/query/finesummary"
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
	loans := []core.Transaction{
		storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15)),
		storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15)),
		storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15)),
	}

	pending := storetest.GivenPendingFine(t, engine, loans[0], book.Title, core.Dollars(4))
	paid := storetest.GivenPendingFine(t, engine, loans[1], book.Title, core.Dollars(2))
	waived := storetest.GivenPendingFine(t, engine, loans[2], book.Title, core.Dollars(1))

	_, err = engine.Fines().MarkPaid(ctx, paid.ID, time.Now(), core.Payment{})
	require.NoError(t, err)
	_, err = engine.Fines().MarkWaived(ctx, waived.ID, time.Now(), core.Waiver{By: "lib-1", Reason: "goodwill"})
	require.NoError(t, err)

	// act
	summary, err := finesummary.NewQueryHandler(engine).Handle(ctx, finesummary.BuildQuery(core.Member("m-1"), ""))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "m-1", summary.UserID)
	assert.Equal(t, "4.00", summary.TotalPending.String())
	assert.Equal(t, "2.00", summary.TotalPaid.String())
	assert.Equal(t, "1.00", summary.TotalWaived.String())
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, pending.UserID, summary.UserID)
}
