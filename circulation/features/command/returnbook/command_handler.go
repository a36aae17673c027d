package returnbook

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of ReturnBook with retry.
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

// Handle returns the book and yields the closed transaction.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Transaction, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Transaction, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Transaction, error) {
	var returned core.Transaction

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		state, err := loadState(ctx, tx, command)
		if err != nil {
			return err
		}

		result := Decide(state, command)
		if err := result.HasError(); err != nil {
			return err
		}

		decision := result.Value

		returned, err = tx.Ledger().MarkReturned(ctx, command.TransactionID, decision.ReturnDate, decision.Fine)
		if err != nil {
			return err
		}

		if _, err := tx.Catalog().AdjustAvailableCopies(ctx, state.Transaction.BookID, +1); err != nil {
			return err
		}

		if decision.Charge != nil {
			if _, err := tx.Fines().Create(ctx, *decision.Charge); err != nil {
				return err
			}
		}

		return nil
	})

	return returned, err
}

func loadState(ctx context.Context, tx store.Stores, command Command) (State, error) {
	txn, err := tx.Ledger().GetByID(ctx, command.TransactionID)
	if errors.Is(err, store.ErrNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	state := State{Transaction: txn, TransactionFound: true}

	book, err := tx.Catalog().GetByID(ctx, txn.BookID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return state, nil
	case err != nil:
		return State{}, err
	}

	state.Book = book
	state.BookFound = true

	return state, nil
}
