package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// GivenLoan lends one copy of book to userID the way a borrow does: the available
// count drops by one and an active transaction is opened.
func GivenLoan(t *testing.T, engine store.Engine, book core.Book, userID string, borrowDate, dueDate core.Date) core.Transaction {
	t.Helper()

	var txn core.Transaction

	err := engine.Atomically(context.Background(), func(ctx context.Context, tx store.Stores) error {
		if _, err := tx.Catalog().AdjustAvailableCopies(ctx, book.ID, -1); err != nil {
			return err
		}

		var err error
		txn, err = tx.Ledger().Create(ctx, book.ID, userID, borrowDate, dueDate, core.MoneyFromCents(0))

		return err
	})
	require.NoError(t, err, "creating a loan in test setup failed")

	return txn
}

// GivenPendingFine records a pending late-return fine for txn.
func GivenPendingFine(t *testing.T, engine store.Engine, txn core.Transaction, bookTitle string, amount core.Money) core.Fine {
	t.Helper()

	fine, err := engine.Fines().Create(context.Background(), core.FineCharge{
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		BookTitle:     bookTitle,
		Amount:        amount,
		Reason:        core.FineReasonLateReturn,
		DueDate:       txn.DueDate,
		ReturnDate:    txn.ReturnDate,
		CreatedAt:     time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err, "creating a fine in test setup failed")

	return fine
}

// ConflictingEngine fails the first Conflicts units of work with store.ErrConcurrencyConflict
// before delegating to the wrapped engine. It simulates losing optimistic races.
type ConflictingEngine struct {
	store.Engine

	mu        sync.Mutex
	conflicts int
	attempts  int
}

// NewConflictingEngine wraps engine so that the first conflicts units of work fail.
func NewConflictingEngine(engine store.Engine, conflicts int) *ConflictingEngine {
	return &ConflictingEngine{Engine: engine, conflicts: conflicts}
}

// Atomically counts the attempt and either fails it or runs fn on the wrapped engine.
func (e *ConflictingEngine) Atomically(ctx context.Context, fn store.UnitOfWorkFunc) error {
	e.mu.Lock()
	e.attempts++
	fail := e.attempts <= e.conflicts
	e.mu.Unlock()

	if fail {
		return store.ErrConcurrencyConflict
	}

	return e.Engine.Atomically(ctx, fn)
}

// Attempts returns how many units of work were started.
func (e *ConflictingEngine) Attempts() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.attempts
}
