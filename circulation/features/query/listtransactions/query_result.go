package listtransactions

import (
	"github.com/stanleyamo/library-management-system/core"
)

// Entry is one loan enriched for display.
type Entry struct {
	core.Transaction
	BookTitle   string
	CurrentFine core.Money
	DaysOverdue int
	IsOverdue   bool
}

// Transactions is the result of ListTransactions.
type Transactions struct {
	Entries     []Entry
	Count       int
	ActiveCount int
}
