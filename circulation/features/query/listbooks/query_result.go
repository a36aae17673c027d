package listbooks

import (
	"github.com/stanleyamo/library-management-system/core"
)

// BookList is the catalog page returned by ListBooks.
type BookList struct {
	Books          []core.Book
	Count          int
	AvailableCount int
}
