package overdueloans

import (
	"github.com/stanleyamo/library-management-system/core"
)

// OverdueLoan is one late loan.
type OverdueLoan struct {
	core.Transaction
	BookTitle     string
	DaysOverdue   int
	ProjectedFine core.Money
}

// OverdueLoans is the result of the OverdueLoans query.
type OverdueLoans struct {
	Loans          []OverdueLoan
	Count          int
	TotalProjected core.Money
}
