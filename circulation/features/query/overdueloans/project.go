package overdueloans

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

// Project selects the loans that are overdue on query.Today.
//
// Query Logic:
//
//	GIVEN: all loans and the catalog
//	WHEN: OverdueLoans is executed
//	THEN: the active loans with DueDate < Today are returned, oldest due date first
//	DETAILS: each carries its days overdue and the fine returning it today would cost
func Project(transactions []core.Transaction, books []core.Book, query Query) OverdueLoans {
	titles := make(map[uuid.UUID]string, len(books))
	for _, book := range books {
		titles[book.ID] = book.Title
	}

	result := OverdueLoans{
		Loans:          []OverdueLoan{},
		TotalProjected: core.MoneyFromCents(0),
	}

	for _, txn := range transactions {
		if !txn.IsOverdueOn(query.Today) {
			continue
		}

		loan := OverdueLoan{
			Transaction:   txn,
			BookTitle:     titles[txn.BookID],
			DaysOverdue:   core.DaysOverdue(txn.DueDate, query.Today),
			ProjectedFine: core.ProjectedFine(txn.DueDate, query.Today),
		}

		result.Loans = append(result.Loans, loan)
		result.TotalProjected = result.TotalProjected.Add(loan.ProjectedFine)
	}

	// stable: equal due dates keep insertion order
	slices.SortStableFunc(result.Loans, func(a, b OverdueLoan) int {
		return cmp.Compare(b.DaysOverdue, a.DaysOverdue)
	})

	result.Count = len(result.Loans)

	return result
}
