package borrowbook

import (
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent of an actor to borrow one copy of a book.
type Command struct {
	BookID     uuid.UUID
	Actor      core.Actor
	Period     core.BorrowPeriod
	BorrowDate core.Date
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, actor core.Actor, period core.BorrowPeriod, borrowDate core.Date) Command {
	return Command{
		BookID:     bookID,
		Actor:      actor,
		Period:     period,
		BorrowDate: borrowDate,
	}
}
