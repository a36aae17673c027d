package checkavailability

import (
	"github.com/google/uuid"
)

// Availability summarizes the copy counts of one book.
type Availability struct {
	BookID          uuid.UUID
	Title           string
	Available       bool
	AvailableCopies int
	TotalCopies     int
	CopiesOnLoan    int
}
