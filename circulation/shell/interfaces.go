package shell

import (
	"context"
)

// Command is implemented by every command of a feature slice.
// CommandType names the use case for logs, metrics, and spans.
type Command interface {
	CommandType() string
}

// Query is implemented by every query of a feature slice.
type Query interface {
	QueryType() string
}

// CommandHandler processes a command with the load -> decide -> write workflow and returns
// the written record R together with execution metadata for observability.
// Expected business failures are returned as *core.Failure.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, HandlerResult, error)
}

// QueryHandler loads records and projects them into the result R.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
