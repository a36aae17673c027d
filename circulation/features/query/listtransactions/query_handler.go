package listtransactions

import (
	"context"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler loads the loans in scope together with the catalog.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle resolves the scope of the actor, loads and projects the loans.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Transactions, error) {
	userID, failure := query.Actor.ScopeFor(query.UserID)
	if failure != nil {
		return Transactions{}, failure
	}

	ctx = store.WithEventualConsistency(ctx)

	transactions, err := h.load(ctx, userID)
	if err != nil {
		return Transactions{}, err
	}

	books, err := h.stores.Catalog().List(ctx, store.BookFilter{})
	if err != nil {
		return Transactions{}, err
	}

	return Project(transactions, books, query), nil
}

func (h QueryHandler) load(ctx context.Context, userID string) ([]core.Transaction, error) {
	if userID == "" {
		return h.stores.Ledger().ListAll(ctx)
	}

	return h.stores.Ledger().ListByUser(ctx, userID)
}
