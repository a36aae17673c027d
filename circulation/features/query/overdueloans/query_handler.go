package overdueloans

import (
	"context"

	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler loads all loans and the catalog.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle lists the overdue loans. Only librarians may run it.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueLoans, error) {
	if failure := query.Actor.RequireLibrarian("list overdue loans"); failure != nil {
		return OverdueLoans{}, failure
	}

	ctx = store.WithEventualConsistency(ctx)

	transactions, err := h.stores.Ledger().ListAll(ctx)
	if err != nil {
		return OverdueLoans{}, err
	}

	books, err := h.stores.Catalog().List(ctx, store.BookFilter{})
	if err != nil {
		return OverdueLoans{}, err
	}

	return Project(transactions, books, query), nil
}
