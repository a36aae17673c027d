package listfines

import (
	"github.com/stanleyamo/library-management-system/core"
)

const (
	queryType = "ListFines"
)

// Query represents the intent to list fines. An empty Status does not restrict.
type Query struct {
	Actor  core.Actor
	UserID string
	Status core.FineStatus
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(actor core.Actor, userID string, status core.FineStatus) Query {
	return Query{
		Actor:  actor,
		UserID: userID,
		Status: status,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
