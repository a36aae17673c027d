package checkavailability

import (
	"github.com/stanleyamo/library-management-system/core"
)

// Project derives the availability of a book from its copy counts.
func Project(book core.Book) Availability {
	return Availability{
		BookID:          book.ID,
		Title:           book.Title,
		Available:       book.IsAvailable(),
		AvailableCopies: book.AvailableCopies,
		TotalCopies:     book.TotalCopies,
		CopiesOnLoan:    book.CopiesOut(),
	}
}
