package addbook

import (
	"context"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of AddBook with retry.
type CommandHandler struct {
	engine       store.Engine
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(engine store.Engine, opts ...Option) CommandHandler {
	handler := CommandHandler{engine: engine}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle adds the book and returns the created catalog entry.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Book, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Book, error) {
	var created core.Book

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		// Non-librarians are turned away before the catalog is read.
		if failure := command.Actor.RequireLibrarian("add books"); failure != nil {
			return failure
		}

		catalog, err := tx.Catalog().List(ctx, store.BookFilter{})
		if err != nil {
			return err
		}

		result := Decide(State{Catalog: catalog}, command)
		if err := result.HasError(); err != nil {
			return err
		}

		created, err = tx.Catalog().Create(ctx, result.Value)

		return err
	})

	return created, err
}
