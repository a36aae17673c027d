package listfines

import (
	"github.com/stanleyamo/library-management-system/core"
)

// Fines is the result of ListFines.
type Fines struct {
	Fines []core.Fine
	Count int
	Total core.Money
}
