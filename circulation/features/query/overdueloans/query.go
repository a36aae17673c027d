package overdueloans

import (
	"github.com/stanleyamo/library-management-system/core"
)

const (
	queryType = "OverdueLoans"
)

// Query represents a librarian's intent to see which loans are late as of Today.
type Query struct {
	Actor core.Actor
	Today core.Date
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(actor core.Actor, today core.Date) Query {
	return Query{
		Actor: actor,
		Today: today,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
