package listbooks

import (
	"github.com/stanleyamo/library-management-system/core"
)

// Project wraps the matched books into a BookList.
//
// Query Logic:
//
//	GIVEN: the books matching the filter
//	WHEN: ListBooks is executed
//	THEN: the books are returned in insertion order with their counts
func Project(books []core.Book) BookList {
	list := BookList{
		Books: make([]core.Book, 0, len(books)),
	}

	for _, book := range books {
		list.Books = append(list.Books, book)

		if book.IsAvailable() {
			list.AvailableCount++
		}
	}

	list.Count = len(list.Books)

	return list
}
