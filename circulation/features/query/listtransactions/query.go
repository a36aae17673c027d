package listtransactions

import (
	"github.com/stanleyamo/library-management-system/core"
)

const (
	queryType = "ListTransactions"
)

// Query represents the intent to list loans.
// An empty UserID means "my loans" for members and "all loans" for librarians;
// an empty Status does not restrict.
type Query struct {
	Actor  core.Actor
	UserID string
	Status core.TransactionStatus
	Today  core.Date
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(actor core.Actor, userID string, status core.TransactionStatus, today core.Date) Query {
	return Query{
		Actor:  actor,
		UserID: userID,
		Status: status,
		Today:  today,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
