package finesummary

import (
	"context"

	"github.com/stanleyamo/library-management-system/circulation/features/query/listfines"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// QueryHandler folds the fines in scope into a summary.
type QueryHandler struct {
	stores store.Stores
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(stores store.Stores) QueryHandler {
	return QueryHandler{stores: stores}
}

// Handle resolves the scope of the actor and summarizes the fines.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Summary, error) {
	userID, failure := query.Actor.ScopeFor(query.UserID)
	if failure != nil {
		return Summary{}, failure
	}

	fines, err := listfines.LoadFines(store.WithEventualConsistency(ctx), h.stores, userID)
	if err != nil {
		return Summary{}, err
	}

	return Summary{UserID: userID, FineSummary: core.SummarizeFines(fines)}, nil
}
