package renewloan

import (
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "RenewLoan"
)

// Command represents the intent to keep a borrowed book longer.
// Days is the extension; zero means core.RenewalDays.
type Command struct {
	TransactionID uuid.UUID
	Actor         core.Actor
	Days          int
	Today         core.Date
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(transactionID uuid.UUID, actor core.Actor, days int, today core.Date) Command {
	return Command{
		TransactionID: transactionID,
		Actor:         actor,
		Days:          days,
		Today:         today,
	}
}

// extension resolves the number of days the due date moves.
func (c Command) extension() int {
	if c.Days == 0 {
		return core.RenewalDays
	}

	return c.Days
}
