package removebook

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of RemoveBook with retry.
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

// Handle deletes the book and returns it as it was before removal.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Book, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Book, error) {
	var removed core.Book

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		state, err := loadState(ctx, tx, command)
		if err != nil {
			return err
		}

		result := Decide(state, command)
		if err := result.HasError(); err != nil {
			return err
		}

		if err := tx.Catalog().Delete(ctx, command.BookID); err != nil {
			return err
		}

		removed = result.Value

		return nil
	})

	return removed, err
}

func loadState(ctx context.Context, tx store.Stores, command Command) (State, error) {
	book, err := tx.Catalog().GetByID(ctx, command.BookID)
	if errors.Is(err, store.ErrNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	activeLoans, err := tx.Ledger().CountActiveByBook(ctx, command.BookID)
	if err != nil {
		return State{}, err
	}

	return State{Book: book, BookFound: true, ActiveLoans: activeLoans}, nil
}
