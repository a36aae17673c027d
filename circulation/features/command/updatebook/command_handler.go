package updatebook

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of UpdateBook with retry.
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

// Handle applies the patch and returns the updated book.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Book, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Book, error) {
	var updated core.Book

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		state, err := loadState(ctx, tx, command)
		if err != nil {
			return err
		}

		result := Decide(state, command)
		if err := result.HasError(); err != nil {
			return err
		}

		updated, err = tx.Catalog().Update(ctx, command.BookID, command.Patch)
		if errors.Is(err, store.ErrInvariantViolation) {
			// a borrow slipped in between load and write
			return errors.Join(store.ErrConcurrencyConflict, err)
		}

		return err
	})

	return updated, err
}

func loadState(ctx context.Context, tx store.Stores, command Command) (State, error) {
	book, err := tx.Catalog().GetByID(ctx, command.BookID)
	if errors.Is(err, store.ErrNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	state := State{Book: book, BookFound: true}

	if command.Patch.ISBN != nil {
		if state.Catalog, err = tx.Catalog().List(ctx, store.BookFilter{}); err != nil {
			return State{}, err
		}
	}

	return state, nil
}
