package getbook

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler loads a single book.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle returns the book or a NotFound failure.
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.Book, error) {
	book, err := h.stores.Catalog().GetByID(store.WithEventualConsistency(ctx), query.BookID)
	if errors.Is(err, store.ErrNotFound) {
		return core.Book{}, core.BookNotFound(query.BookID)
	}

	return book, err
}
