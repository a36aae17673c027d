package waivefine

import (
	"time"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

const (
	commandType = "WaiveFine"
)

// Command represents a librarian's decision to forgive a fine.
type Command struct {
	FineID   uuid.UUID
	Actor    core.Actor
	Reason   string
	WaivedAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(fineID uuid.UUID, actor core.Actor, reason string, waivedAt time.Time) Command {
	return Command{
		FineID:   fineID,
		Actor:    actor,
		Reason:   reason,
		WaivedAt: waivedAt,
	}
}
