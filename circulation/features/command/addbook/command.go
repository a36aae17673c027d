package addbook

import (
	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "AddBook"
)

// Command represents a librarian's intent to add a title to the catalog.
type Command struct {
	Actor core.Actor
	Draft core.BookDraft
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, draft core.BookDraft) Command {
	return Command{
		Actor: actor,
		Draft: draft,
	}
}
