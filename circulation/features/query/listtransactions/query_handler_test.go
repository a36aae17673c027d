package listtransactions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/query/listtransactions"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func Test_QueryHandler_Handle_Scopes(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	book := storetest.GivenBook(t, engine, "Dune", 3)
	storetest.GivenLoan(t, engine, book, "m-1", core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 15))
	storetest.GivenLoan(t, engine, book, "m-2", core.NewDate(2025, 3, 2), core.NewDate(2025, 3, 16))
	today := core.NewDate(2025, 3, 10)

	handler := listtransactions.NewQueryHandler(engine)

	testCases := []struct {
		name      string
		query     listtransactions.Query
		count     int
		forbidden bool
	}{
		{name: "member sees own loans", query: listtransactions.BuildQuery(core.Member("m-1"), "", "", today), count: 1},
		{name: "member asks for self", query: listtransactions.BuildQuery(core.Member("m-2"), "m-2", "", today), count: 1},
		{name: "member asks for another user", query: listtransactions.BuildQuery(core.Member("m-1"), "m-2", "", today), forbidden: true},
		{name: "librarian sees everyone", query: listtransactions.BuildQuery(core.Librarian("lib-1"), "", "", today), count: 2},
		{name: "librarian sees one user", query: listtransactions.BuildQuery(core.Librarian("lib-1"), "m-2", "", today), count: 1},
		{name: "librarian filters returned", query: listtransactions.BuildQuery(core.Librarian("lib-1"), "", core.TransactionReturned, today), count: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result, err := handler.Handle(ctx, tc.query)

			// assert
			if tc.forbidden {
				assert.ErrorIs(t, err, core.ErrForbidden)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.count, result.Count)
		})
	}
}
