package listbooks

import (
	"github.com/stanleyamo/library-management-system/store"
)

const (
	queryType = "ListBooks"
)

// Query represents the intent to browse the catalog.
type Query struct {
	Filter store.BookFilter
}

// BuildQuery creates a new Query from the optional search options.
func BuildQuery(search, genre string, availableOnly bool) Query {
	builder := store.BuildBookFilter().Searching(search).InGenre(genre)
	if availableOnly {
		builder = builder.AvailableOnly()
	}

	return Query{Filter: builder.Finalize()}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
