package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent to bring a borrowed copy back.
type Command struct {
	TransactionID uuid.UUID
	Actor         core.Actor
	ReturnDate    core.Date
	RecordedAt    time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(transactionID uuid.UUID, actor core.Actor, returnDate core.Date, recordedAt time.Time) Command {
	return Command{
		TransactionID: transactionID,
		Actor:         actor,
		ReturnDate:    returnDate,
		RecordedAt:    recordedAt,
	}
}
