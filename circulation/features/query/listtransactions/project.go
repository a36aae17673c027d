package listtransactions

import (
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

// unknownTitle is shown for loans of books that were removed from the catalog.
const unknownTitle = "Unknown"

// Project enriches the loans with titles and fines as of query.Today.
//
// Query Logic:
//
//	GIVEN: the loans in scope and the catalog
//	WHEN: ListTransactions is executed
//	THEN: each loan is returned in insertion order with its book title
//	INCLUDES: loans with the requested status (all when empty)
//	DETAILS: active loans carry the projected fine; returned loans the fine charged at return
func Project(transactions []core.Transaction, books []core.Book, query Query) Transactions {
	titles := make(map[uuid.UUID]string, len(books))
	for _, book := range books {
		titles[book.ID] = book.Title
	}

	result := Transactions{Entries: make([]Entry, 0, len(transactions))}

	for _, txn := range transactions {
		if query.Status != "" && txn.Status != query.Status {
			continue
		}

		title, ok := titles[txn.BookID]
		if !ok {
			title = unknownTitle
		}

		entry := Entry{
			Transaction: txn,
			BookTitle:   title,
			CurrentFine: txn.CurrentFineOn(query.Today),
			IsOverdue:   txn.IsOverdueOn(query.Today),
		}

		if txn.IsActive() {
			entry.DaysOverdue = core.DaysOverdue(txn.DueDate, query.Today)
			result.ActiveCount++
		}

		result.Entries = append(result.Entries, entry)
	}

	result.Count = len(result.Entries)

	return result
}
