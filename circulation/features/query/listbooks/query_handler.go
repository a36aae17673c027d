package listbooks

import (
	"context"

	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler loads the matching books and projects them.
// Observability is added externally with observable.QueryWrapper.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle runs the catalog search. Reads may be served by a replica.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookList, error) {
	ctx = store.WithEventualConsistency(ctx)

	books, err := h.stores.Catalog().List(ctx, query.Filter)
	if err != nil {
		return BookList{}, err
	}

	return Project(books), nil
}
