package borrowbook

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of BorrowBook with retry.
// Observability is added externally with observable.CommandWrapper.
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

// Handle borrows the book and returns the new active transaction.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Transaction, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Transaction, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Transaction, error) {
	var txn core.Transaction

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		state, err := loadState(ctx, tx, command)
		if err != nil {
			return err
		}

		result := Decide(state, command)
		if err := result.HasError(); err != nil {
			return err
		}

		terms := result.Value

		if _, err := tx.Catalog().AdjustAvailableCopies(ctx, command.BookID, -1); err != nil {
			if errors.Is(err, store.ErrInvariantViolation) {
				return errors.Join(store.ErrConcurrencyConflict, err)
			}

			return err
		}

		txn, err = tx.Ledger().Create(ctx, command.BookID, command.Actor.UserID, terms.BorrowDate, terms.DueDate, terms.ExtendedFee)

		return err
	})

	return txn, err
}

func loadState(ctx context.Context, tx store.Stores, command Command) (State, error) {
	book, err := tx.Catalog().GetByID(ctx, command.BookID)
	if errors.Is(err, store.ErrNotFound) {
		return State{}, nil
	}

	if err != nil {
		return State{}, err
	}

	activeLoans, err := tx.Ledger().CountActiveByUser(ctx, command.Actor.UserID)
	if err != nil {
		return State{}, err
	}

	loans, err := tx.Ledger().ListByUser(ctx, command.Actor.UserID)
	if err != nil {
		return State{}, err
	}

	fines, err := tx.Fines().ListByUser(ctx, command.Actor.UserID)
	if err != nil {
		return State{}, err
	}

	state := State{Book: book, BookFound: true, ActiveLoans: activeLoans, PendingFines: core.MoneyFromCents(0)}

	for _, loan := range loans {
		if loan.IsOverdueOn(command.BorrowDate) {
			state.OverdueLoans++
		}
	}

	for _, fine := range fines {
		if fine.IsPending() {
			state.PendingFines = state.PendingFines.Add(fine.Amount)
		}
	}

	return state, nil
}
