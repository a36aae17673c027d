package removebook

import (
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "RemoveBook"
)

// Command represents a librarian's intent to take a title out of the catalog.
type Command struct {
	BookID uuid.UUID
	Actor  core.Actor
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, actor core.Actor) Command {
	return Command{
		BookID: bookID,
		Actor:  actor,
	}
}
