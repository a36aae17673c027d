package memengine

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

// tables holds the three collections in insertion order plus id indexes.
// Records are replaced, never mutated in place, so clones may share pointer fields.
type tables struct {
	books        []core.Book
	bookIndex    map[uuid.UUID]int
	transactions []core.Transaction
	txIndex      map[uuid.UUID]int
	fines        []core.Fine
	fineIndex    map[uuid.UUID]int
}

func newTables() *tables {
	return &tables{
		bookIndex: make(map[uuid.UUID]int),
		txIndex:   make(map[uuid.UUID]int),
		fineIndex: make(map[uuid.UUID]int),
	}
}

func (t *tables) clone() *tables {
	return &tables{
		books:        slices.Clone(t.books),
		bookIndex:    maps.Clone(t.bookIndex),
		transactions: slices.Clone(t.transactions),
		txIndex:      maps.Clone(t.txIndex),
		fines:        slices.Clone(t.fines),
		fineIndex:    maps.Clone(t.fineIndex),
	}
}

func (t *tables) removeBook(i int) {
	t.books = slices.Delete(t.books, i, i+1)

	t.bookIndex = make(map[uuid.UUID]int, len(t.books))
	for pos, b := range t.books {
		t.bookIndex[b.ID] = pos
	}
}
