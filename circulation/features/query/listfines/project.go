package listfines

import (
	"github.com/stanleyamo/library-management-system/core"
)

// Project keeps the fines with the requested status and totals their amounts.
func Project(fines []core.Fine, query Query) Fines {
	result := Fines{
		Fines: make([]core.Fine, 0, len(fines)),
		Total: core.MoneyFromCents(0),
	}

	for _, fine := range fines {
		if query.Status != "" && fine.Status != query.Status {
			continue
		}

		result.Fines = append(result.Fines, fine)
		result.Total = result.Total.Add(fine.Amount)
	}

	result.Count = len(result.Fines)

	return result
}
