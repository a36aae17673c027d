package listfines

import (
	"context"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler loads the fines in scope.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle resolves the scope of the actor, loads and projects the fines.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Fines, error) {
	userID, failure := query.Actor.ScopeFor(query.UserID)
	if failure != nil {
		return Fines{}, failure
	}

	fines, err := LoadFines(store.WithEventualConsistency(ctx), h.stores, userID)
	if err != nil {
		return Fines{}, err
	}

	return Project(fines, query), nil
}

// LoadFines returns the fines of userID, or all fines when userID is empty.
func LoadFines(ctx context.Context, stores store.Stores, userID string) ([]core.Fine, error) {
	if userID == "" {
		return stores.Fines().ListAll(ctx)
	}

	return stores.Fines().ListByUser(ctx, userID)
}
