// Package store defines the storage contracts of the circulation core: the Catalog
// Store (books), the Ledger Store (transactions), and the Fine Store (fines), plus
// the Engine that runs several store operations as one unit of work.
//
// The stores are passive data holders with no cross-store awareness. All business
// rules live in the circulation command handlers; the stores only guarantee that
// each conditional write is a single check-and-set step:
//   - CatalogStore.AdjustAvailableCopies never lets a count leave [0, TotalCopies]
//   - LedgerStore.MarkReturned only closes a transaction that is still active
//   - FineStore.MarkPaid and MarkWaived only settle a fine that is still pending
//
// A lost check-and-set race surfaces as ErrConcurrencyConflict (or
// ErrInvariantViolation for copy counts), which callers retry after re-reading.
//
// Common usage pattern:
//
//	err := engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
//		book, err := tx.Catalog().GetByID(ctx, bookID)
//		if err != nil {
//			return err
//		}
//
//		if _, err = tx.Catalog().AdjustAvailableCopies(ctx, book.ID, -1); err != nil {
//			return err
//		}
//
//		_, err = tx.Ledger().Create(ctx, book.ID, userID, borrowDate, dueDate, core.Money{})
//		return err
//	})
//
// Implementations live in the memengine (in-memory) and sqlengine (PostgreSQL, SQLite)
// subpackages.
package store
