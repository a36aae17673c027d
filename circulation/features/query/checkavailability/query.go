package checkavailability

import (
	"github.com/google/uuid"
)

const (
	queryType = "CheckAvailability"
)

// Query represents the intent to know whether a book is on the shelf.
type Query struct {
	BookID uuid.UUID
}

// BuildQuery creates a new Query with the provided book ID.
func BuildQuery(bookID uuid.UUID) Query {
	return Query{BookID: bookID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
