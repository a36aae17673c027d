package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
)

// CatalogStore holds Book records.
type CatalogStore interface {
	// List returns the books matching the filter in insertion order.
	List(ctx context.Context, filter BookFilter) ([]core.Book, error)

	// GetByID returns ErrNotFound for an unknown id.
	GetByID(ctx context.Context, id uuid.UUID) (core.Book, error)

	// Create assigns a new id and makes all copies available.
	Create(ctx context.Context, draft core.BookDraft) (core.Book, error)

	// Update merges the patch. It never sets AvailableCopies directly.
	Update(ctx context.Context, id uuid.UUID, patch core.BookPatch) (core.Book, error)

	// Delete removes the book; ErrNotFound for an unknown id.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustAvailableCopies moves the available count by delta in one conditional step.
	// It fails with ErrInvariantViolation if the result would leave [0, TotalCopies].
	AdjustAvailableCopies(ctx context.Context, id uuid.UUID, delta int) (core.Book, error)
}

// LedgerStore holds Transaction records. Transactions are never deleted.
type LedgerStore interface {
	ListByUser(ctx context.Context, userID string) ([]core.Transaction, error)
	ListAll(ctx context.Context) ([]core.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (core.Transaction, error)

	// Create opens an active transaction with a zero fine.
	Create(
		ctx context.Context,
		bookID uuid.UUID,
		userID string,
		borrowDate core.Date,
		dueDate core.Date,
		extendedFee core.Money,
	) (core.Transaction, error)

	// MarkReturned closes an active transaction. It fails with ErrConcurrencyConflict
	// if the transaction is no longer active.
	MarkReturned(ctx context.Context, id uuid.UUID, returnDate core.Date, fine core.Money) (core.Transaction, error)

	// ExtendDueDate renews an active transaction whose renewal count is still expectedRenewals.
	// It fails with ErrConcurrencyConflict otherwise.
	ExtendDueDate(ctx context.Context, id uuid.UUID, expectedRenewals int, dueDate core.Date) (core.Transaction, error)

	CountActiveByUser(ctx context.Context, userID string) (int, error)
	CountActiveByBook(ctx context.Context, bookID uuid.UUID) (int, error)
}

// FineStore holds Fine records. Fines are never deleted and their amount never changes.
type FineStore interface {
	ListByUser(ctx context.Context, userID string) ([]core.Fine, error)
	ListAll(ctx context.Context) ([]core.Fine, error)
	GetByID(ctx context.Context, id uuid.UUID) (core.Fine, error)

	// Create records a pending fine.
	Create(ctx context.Context, charge core.FineCharge) (core.Fine, error)

	// MarkPaid settles a pending fine. It fails with ErrConcurrencyConflict if the fine is not pending.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, payment core.Payment) (core.Fine, error)

	// MarkWaived forgives a pending fine. It fails with ErrConcurrencyConflict if the fine is not pending.
	MarkWaived(ctx context.Context, id uuid.UUID, waivedAt time.Time, waiver core.Waiver) (core.Fine, error)
}

// Stores gives access to the three collections.
type Stores interface {
	Catalog() CatalogStore
	Ledger() LedgerStore
	Fines() FineStore
}

// UnitOfWorkFunc runs store operations that must commit together.
type UnitOfWorkFunc func(ctx context.Context, tx Stores) error

// Engine is a storage backend. Operations on the embedded Stores run on their own;
// Atomically runs fn so that either all of its writes commit or none do.
// A non-nil error returned by fn rolls the unit of work back and is returned unchanged.
type Engine interface {
	Stores
	Atomically(ctx context.Context, fn UnitOfWorkFunc) error
}
