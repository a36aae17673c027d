package renewloan

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of RenewLoan with retry.
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

// Handle renews the loan and returns it with the new due date.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Transaction, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Transaction, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Transaction, error) {
	var renewed core.Transaction

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		txn, err := tx.Ledger().GetByID(ctx, command.TransactionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		result := Decide(State{Transaction: txn, TransactionFound: err == nil}, command)
		if err := result.HasError(); err != nil {
			return err
		}

		renewal := result.Value
		renewed, err = tx.Ledger().ExtendDueDate(ctx, command.TransactionID, renewal.ExpectedRenewals, renewal.NewDueDate)

		return err
	})

	return renewed, err
}
