package memengine

import (
	"context"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

type ledger struct {
	s session
}

func (l ledger) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return l.list(ctx, func(tx core.Transaction) bool { return tx.UserID == userID })
}

func (l ledger) ListAll(ctx context.Context) ([]core.Transaction, error) {
	return l.list(ctx, func(core.Transaction) bool { return true })
}

func (l ledger) GetByID(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	var found core.Transaction

	err := l.s.read(ctx, func(t *tables) error {
		i, ok := t.txIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		found = t.transactions[i]

		return nil
	})

	return found, err
}

func (l ledger) Create(
	ctx context.Context,
	bookID uuid.UUID,
	userID string,
	borrowDate core.Date,
	dueDate core.Date,
	extendedFee core.Money,
) (core.Transaction, error) {

	created := core.Transaction{
		ID:          l.s.nextID(),
		BookID:      bookID,
		UserID:      userID,
		BorrowDate:  borrowDate,
		DueDate:     dueDate,
		Status:      core.TransactionActive,
		ExtendedFee: extendedFee,
	}

	err := l.s.write(ctx, func(t *tables) error {
		t.txIndex[created.ID] = len(t.transactions)
		t.transactions = append(t.transactions, created)

		return nil
	})

	return created, err
}

func (l ledger) MarkReturned(ctx context.Context, id uuid.UUID, returnDate core.Date, fine core.Money) (core.Transaction, error) {
	return l.transition(ctx, id, func(tx core.Transaction) (core.Transaction, bool) {
		if !tx.IsActive() {
			return tx, false
		}

		tx.Status = core.TransactionReturned
		tx.ReturnDate = &returnDate
		tx.Fine = fine

		return tx, true
	})
}

func (l ledger) ExtendDueDate(ctx context.Context, id uuid.UUID, expectedRenewals int, dueDate core.Date) (core.Transaction, error) {
	return l.transition(ctx, id, func(tx core.Transaction) (core.Transaction, bool) {
		if !tx.IsActive() || tx.RenewalCount != expectedRenewals {
			return tx, false
		}

		tx.DueDate = dueDate
		tx.RenewalCount++

		return tx, true
	})
}

func (l ledger) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	return l.countActive(ctx, func(tx core.Transaction) bool { return tx.UserID == userID })
}

func (l ledger) CountActiveByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	return l.countActive(ctx, func(tx core.Transaction) bool { return tx.BookID == bookID })
}

func (l ledger) list(ctx context.Context, keep func(core.Transaction) bool) ([]core.Transaction, error) {
	var out []core.Transaction

	err := l.s.read(ctx, func(t *tables) error {
		out = make([]core.Transaction, 0)
		for _, tx := range t.transactions {
			if keep(tx) {
				out = append(out, tx)
			}
		}

		return nil
	})

	return out, err
}

func (l ledger) countActive(ctx context.Context, match func(core.Transaction) bool) (int, error) {
	count := 0

	err := l.s.read(ctx, func(t *tables) error {
		for _, tx := range t.transactions {
			if tx.IsActive() && match(tx) {
				count++
			}
		}

		return nil
	})

	return count, err
}

// transition applies a check-and-set change; change reports false when the precondition failed.
func (l ledger) transition(
	ctx context.Context,
	id uuid.UUID,
	change func(core.Transaction) (core.Transaction, bool),
) (core.Transaction, error) {

	var updated core.Transaction

	err := l.s.write(ctx, func(t *tables) error {
		i, ok := t.txIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		next, applied := change(t.transactions[i])
		if !applied {
			return store.ErrConcurrencyConflict
		}

		t.transactions[i] = next
		updated = next

		return nil
	})

	return updated, err
}
