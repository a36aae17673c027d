package finesummary

import (
	"github.com/stanleyamo/library-management-system/core"
)

// Summary is the result of FineSummary. An empty UserID means the whole library.
type Summary struct {
	UserID string
	core.FineSummary
}
