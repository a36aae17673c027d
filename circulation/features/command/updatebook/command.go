package updatebook

import (
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "UpdateBook"
)

// Command represents a librarian's intent to change fields of a book.
type Command struct {
	BookID uuid.UUID
	Actor  core.Actor
	Patch  core.BookPatch
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, actor core.Actor, patch core.BookPatch) Command {
	return Command{
		BookID: bookID,
		Actor:  actor,
		Patch:  patch,
	}
}
