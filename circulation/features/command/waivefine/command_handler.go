package waivefine

import (
	"context"
	"errors"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// CommandHandler runs the load -> decide -> write workflow of WaiveFine with retry.
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

// Handle waives the fine and returns it in its waived state.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Fine, shell.HandlerResult, error) {
	return shell.ExecuteWithRetry(ctx, func(ctx context.Context) (core.Fine, error) {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Fine, error) {
	var waived core.Fine

	err := h.engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		fine, err := tx.Fines().GetByID(ctx, command.FineID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		result := Decide(State{Fine: fine, FineFound: err == nil}, command)
		if err := result.HasError(); err != nil {
			return err
		}

		waived, err = tx.Fines().MarkWaived(ctx, command.FineID, command.WaivedAt, result.Value)

		return err
	})

	return waived, err
}
