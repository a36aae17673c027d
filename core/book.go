package core

import (
	"github.com/google/uuid"
)

// Book is one title in the catalog. Copies are tracked by count only.
type Book struct {
	ID              uuid.UUID
	ISBN            string
	Title           string
	Author          string
	Genre           string
	PublishedYear   int
	Publisher       string
	CallNumber      string
	Description     string
	CoverImage      string
	TotalCopies     int
	AvailableCopies int
}

// IsAvailable reports whether at least one copy can be borrowed.
func (b Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// CopiesOut returns the number of copies currently on loan.
func (b Book) CopiesOut() int {
	return b.TotalCopies - b.AvailableCopies
}

// BookDraft holds the librarian-supplied fields of a new catalog entry.
type BookDraft struct {
	ISBN          string `validate:"required,isbn_digits"`
	Title         string `validate:"required,max=255"`
	Author        string `validate:"required,max=255"`
	Genre         string `validate:"max=100"`
	PublishedYear int    `validate:"omitempty,gte=1000,lte=9999"`
	Publisher     string `validate:"max=255"`
	CallNumber    string `validate:"max=50"`
	Description   string
	CoverImage    string `validate:"max=500"`
	TotalCopies   int    `validate:"gte=1"`
}

// NewBook turns a draft into a Book with all copies available.
func (d BookDraft) NewBook(id uuid.UUID) Book {
	return Book{
		ID:              id,
		ISBN:            d.ISBN,
		Title:           d.Title,
		Author:          d.Author,
		Genre:           d.Genre,
		PublishedYear:   d.PublishedYear,
		Publisher:       d.Publisher,
		CallNumber:      d.CallNumber,
		Description:     d.Description,
		CoverImage:      d.CoverImage,
		TotalCopies:     d.TotalCopies,
		AvailableCopies: d.TotalCopies,
	}
}

// BookPatch is a partial update of a Book. Nil fields are left unchanged.
// AvailableCopies cannot be patched; it only moves through borrow and return,
// or by the same delta as TotalCopies.
type BookPatch struct {
	ISBN          *string
	Title         *string
	Author        *string
	Genre         *string
	PublishedYear *int
	Publisher     *string
	CallNumber    *string
	Description   *string
	CoverImage    *string
	TotalCopies   *int
}

// ApplyTo merges the patch into b. Changing TotalCopies shifts AvailableCopies by the same
// delta; it fails with KindInvariantViolation when more copies are on loan than the new total.
func (p BookPatch) ApplyTo(b Book) (Book, error) {
	setString(&b.ISBN, p.ISBN)
	setString(&b.Title, p.Title)
	setString(&b.Author, p.Author)
	setString(&b.Genre, p.Genre)
	setString(&b.Publisher, p.Publisher)
	setString(&b.CallNumber, p.CallNumber)
	setString(&b.Description, p.Description)
	setString(&b.CoverImage, p.CoverImage)

	if p.PublishedYear != nil {
		b.PublishedYear = *p.PublishedYear
	}

	if p.TotalCopies != nil {
		delta := *p.TotalCopies - b.TotalCopies
		if b.AvailableCopies+delta < 0 {
			return b, NewFailure(
				KindInvariantViolation,
				"cannot reduce total copies to %d while %d copies are on loan",
				*p.TotalCopies,
				b.CopiesOut(),
			)
		}

		b.TotalCopies = *p.TotalCopies
		b.AvailableCopies += delta
	}

	return b, nil
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p == BookPatch{}
}

// Draft returns the editable fields of b, used to re-validate a patched book.
func (b Book) Draft() BookDraft {
	return BookDraft{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Publisher:     b.Publisher,
		CallNumber:    b.CallNumber,
		Description:   b.Description,
		CoverImage:    b.CoverImage,
		TotalCopies:   b.TotalCopies,
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
