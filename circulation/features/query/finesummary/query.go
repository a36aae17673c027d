package finesummary

import (
	"github.com/stanleyamo/library-management-system/core"
)

const (
	queryType = "FineSummary"
)

// Query represents the intent to see how much is owed, paid and waived.
type Query struct {
	Actor  core.Actor
	UserID string
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(actor core.Actor, userID string) Query {
	return Query{
		Actor:  actor,
		UserID: userID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
