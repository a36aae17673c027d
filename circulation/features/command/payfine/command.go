package payfine

import (
	"time"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "PayFine"
)

// Command represents the intent to pay a fine. Payment method and reference are optional.
type Command struct {
	FineID  uuid.UUID
	Actor   core.Actor
	Payment core.Payment
	PaidAt  time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(fineID uuid.UUID, actor core.Actor, payment core.Payment, paidAt time.Time) Command {
	return Command{
		FineID:  fineID,
		Actor:   actor,
		Payment: payment,
		PaidAt:  paidAt,
	}
}
