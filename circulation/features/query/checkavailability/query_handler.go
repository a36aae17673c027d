package checkavailability

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler loads a book and projects its availability.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle reads from the primary: availability is checked right before borrowing.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Availability, error) {
	book, err := h.stores.Catalog().GetByID(store.WithStrongConsistency(ctx), query.BookID)
	if errors.Is(err, store.ErrNotFound) {
		return Availability{}, core.BookNotFound(query.BookID)
	}

	if err != nil {
		return Availability{}, err
	}

	return Project(book), nil
}
