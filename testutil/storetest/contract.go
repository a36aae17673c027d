package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

// EngineFactory returns a fresh, empty engine for one subtest.
type EngineFactory func(t *testing.T) store.Engine

var errAbortUnitOfWork = errors.New("abort unit of work")

// RunEngineContract runs the shared store contract against engines built by newEngine.
func RunEngineContract(t *testing.T, newEngine EngineFactory) {
	t.Helper()

	t.Run("catalog create and get", func(t *testing.T) { testCatalogCreateAndGet(t, newEngine(t)) })
	t.Run("catalog list filters in insertion order", func(t *testing.T) { testCatalogList(t, newEngine(t)) })
	t.Run("catalog update", func(t *testing.T) { testCatalogUpdate(t, newEngine(t)) })
	t.Run("catalog delete", func(t *testing.T) { testCatalogDelete(t, newEngine(t)) })
	t.Run("catalog adjust available copies", func(t *testing.T) { testCatalogAdjust(t, newEngine(t)) })
	t.Run("ledger lifecycle", func(t *testing.T) { testLedgerLifecycle(t, newEngine(t)) })
	t.Run("ledger renewals", func(t *testing.T) { testLedgerRenewals(t, newEngine(t)) })
	t.Run("fine lifecycle", func(t *testing.T) { testFineLifecycle(t, newEngine(t)) })
	t.Run("unit of work commits", func(t *testing.T) { testUnitOfWorkCommits(t, newEngine(t)) })
	t.Run("unit of work rolls back", func(t *testing.T) { testUnitOfWorkRollsBack(t, newEngine(t)) })
	t.Run("concurrent decrements never oversell", func(t *testing.T) { testConcurrentDecrements(t, newEngine(t)) })
}

// GivenBook creates a book with the given title and number of copies.
func GivenBook(t *testing.T, engine store.Engine, title string, copies int) core.Book {
	t.Helper()

	book, err := engine.Catalog().Create(context.Background(), core.BookDraft{
		ISBN:        "9780000000000",
		Title:       title,
		Author:      "Test Author",
		Genre:       "Fiction",
		TotalCopies: copies,
	})
	require.NoError(t, err, "creating a book in test setup failed")

	return book
}

func testCatalogCreateAndGet(t *testing.T, engine store.Engine) {
	ctx := context.Background()

	created, err := engine.Catalog().Create(ctx, core.BookDraft{
		ISBN:          "978-0-7432-7356-5",
		Title:         "The Great Gatsby",
		Author:        "F. Scott Fitzgerald",
		Genre:         "Classic",
		PublishedYear: 1925,
		Publisher:     "Scribner",
		CallNumber:    "813.52 FIT",
		Description:   "Jazz age novel",
		CoverImage:    "https://covers.example/gatsby.jpg",
		TotalCopies:   4,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 4, created.AvailableCopies)

	loaded, err := engine.Catalog().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	_, err = engine.Catalog().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testCatalogList(t *testing.T, engine store.Engine) {
	ctx := context.Background()

	first := GivenBook(t, engine, "Dune", 1)
	second := GivenBook(t, engine, "Emma", 2)
	third := GivenBook(t, engine, "Dune Messiah", 1)

	_, err := engine.Catalog().AdjustAvailableCopies(ctx, third.ID, -1)
	require.NoError(t, err)

	all, err := engine.Catalog().List(ctx, store.BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, bookIDs(all))

	dunes, err := engine.Catalog().List(ctx, store.BuildBookFilter().Searching("dUNE").Finalize())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, third.ID}, bookIDs(dunes))

	available, err := engine.Catalog().List(ctx, store.BuildBookFilter().Searching("dune").AvailableOnly().Finalize())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, bookIDs(available))

	none, err := engine.Catalog().List(ctx, store.BuildBookFilter().InGenre("Poetry").Finalize())
	require.NoError(t, err)
	assert.Empty(t, none)

	wildcard, err := engine.Catalog().List(ctx, store.BuildBookFilter().Searching("%").Finalize())
	require.NoError(t, err)
	assert.Empty(t, wildcard, "search terms are literal, not patterns")
}

func testCatalogUpdate(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	book := GivenBook(t, engine, "Persuasion", 2)

	_, err := engine.Catalog().AdjustAvailableCopies(ctx, book.ID, -1)
	require.NoError(t, err)

	title := "Persuasion (Annotated)"
	total := 3

	updated, err := engine.Catalog().Update(ctx, book.ID, core.BookPatch{Title: &title, TotalCopies: &total})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, book.Author, updated.Author)
	assert.Equal(t, 3, updated.TotalCopies)
	assert.Equal(t, 2, updated.AvailableCopies)

	loaded, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)

	tooFew := 0
	_, err = engine.Catalog().Update(ctx, book.ID, core.BookPatch{TotalCopies: &tooFew})
	assert.ErrorIs(t, err, store.ErrInvariantViolation)

	_, err = engine.Catalog().Update(ctx, uuid.New(), core.BookPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testCatalogDelete(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	first := GivenBook(t, engine, "Ulysses", 1)
	second := GivenBook(t, engine, "Dubliners", 1)

	require.NoError(t, engine.Catalog().Delete(ctx, first.ID))

	_, err := engine.Catalog().GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	remaining, err := engine.Catalog().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, remaining)

	assert.ErrorIs(t, engine.Catalog().Delete(ctx, first.ID), store.ErrNotFound)
}

func testCatalogAdjust(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	book := GivenBook(t, engine, "Beloved", 1)

	_, err := engine.Catalog().AdjustAvailableCopies(ctx, book.ID, 1)
	assert.ErrorIs(t, err, store.ErrInvariantViolation, "cannot exceed total copies")

	adjusted, err := engine.Catalog().AdjustAvailableCopies(ctx, book.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted.AvailableCopies)

	_, err = engine.Catalog().AdjustAvailableCopies(ctx, book.ID, -1)
	assert.ErrorIs(t, err, store.ErrInvariantViolation, "cannot go negative")

	loaded, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.AvailableCopies)

	_, err = engine.Catalog().AdjustAvailableCopies(ctx, uuid.New(), -1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testLedgerLifecycle(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	book := GivenBook(t, engine, "Middlemarch", 2)
	borrowDate := core.NewDate(2024, time.May, 1)

	created, err := engine.Ledger().Create(ctx, book.ID, "reader-1", borrowDate, borrowDate.AddDays(14), core.Dollars(5))
	require.NoError(t, err)
	assert.Equal(t, core.TransactionActive, created.Status)
	assert.Equal(t, "0.00", created.Fine.String())
	assert.Equal(t, "5.00", created.ExtendedFee.String())
	assert.Nil(t, created.ReturnDate)

	other, err := engine.Ledger().Create(ctx, book.ID, "reader-2", borrowDate, borrowDate.AddDays(30), core.Money{})
	require.NoError(t, err)

	byUser, err := engine.Ledger().ListByUser(ctx, "reader-1")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{created.ID}, transactionIDs(byUser))

	all, err := engine.Ledger().ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{created.ID, other.ID}, transactionIDs(all))

	activeForBook, err := engine.Ledger().CountActiveByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, activeForBook)

	returnDate := borrowDate.AddDays(17)
	returned, err := engine.Ledger().MarkReturned(ctx, created.ID, returnDate, core.Dollars(3))
	require.NoError(t, err)
	assert.Equal(t, core.TransactionReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, returnDate, *returned.ReturnDate)
	assert.Equal(t, "3.00", returned.Fine.String())

	loaded, err := engine.Ledger().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, returned, loaded)

	_, err = engine.Ledger().MarkReturned(ctx, created.ID, returnDate, core.Dollars(9))
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict, "a returned transaction cannot be returned again")

	_, err = engine.Ledger().MarkReturned(ctx, uuid.New(), returnDate, core.Money{})
	assert.ErrorIs(t, err, store.ErrNotFound)

	activeForUser, err := engine.Ledger().CountActiveByUser(ctx, "reader-1")
	require.NoError(t, err)
	assert.Equal(t, 0, activeForUser)
}

func testLedgerRenewals(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	book := GivenBook(t, engine, "Walden", 1)
	borrowDate := core.NewDate(2024, time.August, 1)

	created, err := engine.Ledger().Create(ctx, book.ID, "reader-1", borrowDate, borrowDate.AddDays(14), core.Money{})
	require.NoError(t, err)

	renewed, err := engine.Ledger().ExtendDueDate(ctx, created.ID, 0, borrowDate.AddDays(28))
	require.NoError(t, err)
	assert.Equal(t, 1, renewed.RenewalCount)
	assert.Equal(t, "2024-08-29", renewed.DueDate.String())

	_, err = engine.Ledger().ExtendDueDate(ctx, created.ID, 0, borrowDate.AddDays(42))
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict, "stale renewal count must not apply")

	_, err = engine.Ledger().MarkReturned(ctx, created.ID, borrowDate.AddDays(20), core.Money{})
	require.NoError(t, err)

	_, err = engine.Ledger().ExtendDueDate(ctx, created.ID, 1, borrowDate.AddDays(42))
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict, "returned loans cannot be renewed")
}

func testFineLifecycle(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	dueDate := core.NewDate(2024, time.March, 1)
	returnDate := dueDate.AddDays(2)
	createdAt := time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC)

	charge := core.FineCharge{
		TransactionID: uuid.New(),
		UserID:        "reader-1",
		BookTitle:     "Emma",
		Amount:        core.Dollars(2),
		Reason:        core.FineReasonLateReturn,
		DueDate:       dueDate,
		ReturnDate:    &returnDate,
		CreatedAt:     createdAt,
	}

	first, err := engine.Fines().Create(ctx, charge)
	require.NoError(t, err)
	assert.Equal(t, core.FinePending, first.Status)
	assert.Equal(t, "2.00", first.Amount.String())
	assert.True(t, createdAt.Equal(first.CreatedAt))
	assert.Nil(t, first.PaidAt)

	charge.UserID = "reader-2"
	second, err := engine.Fines().Create(ctx, charge)
	require.NoError(t, err)

	byUser, err := engine.Fines().ListByUser(ctx, "reader-1")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, fineIDs(byUser))

	all, err := engine.Fines().ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, fineIDs(all))

	paidAt := createdAt.Add(time.Hour)
	paid, err := engine.Fines().MarkPaid(ctx, first.ID, paidAt, core.Payment{Method: "card", Reference: "R-1"})
	require.NoError(t, err)
	assert.Equal(t, core.FinePaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paidAt.Equal(*paid.PaidAt))
	assert.Equal(t, "card", paid.PaymentMethod)

	_, err = engine.Fines().MarkPaid(ctx, first.ID, paidAt.Add(time.Hour), core.Payment{})
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)

	reloaded, err := engine.Fines().GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PaidAt)
	assert.True(t, paidAt.Equal(*reloaded.PaidAt), "paidAt must not change on a second payment")

	waived, err := engine.Fines().MarkWaived(ctx, second.ID, paidAt, core.Waiver{By: "librarian-1", Reason: "first offence"})
	require.NoError(t, err)
	assert.Equal(t, core.FineWaived, waived.Status)
	assert.Equal(t, "first offence", waived.WaiverReason)

	_, err = engine.Fines().MarkWaived(ctx, first.ID, paidAt, core.Waiver{By: "librarian-1", Reason: "late"})
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)

	_, err = engine.Fines().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testUnitOfWorkCommits(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	book := GivenBook(t, engine, "Moby Dick", 1)
	borrowDate := core.NewDate(2024, time.January, 2)

	var created core.Transaction

	err := engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		if _, err := tx.Catalog().AdjustAvailableCopies(ctx, book.ID, -1); err != nil {
			return err
		}

		var err error
		created, err = tx.Ledger().Create(ctx, book.ID, "reader-1", borrowDate, borrowDate.AddDays(14), core.Money{})
		if err != nil {
			return err
		}

		// a unit of work sees its own writes
		inside, err := tx.Catalog().GetByID(ctx, book.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, 0, inside.AvailableCopies)

		return nil
	})
	require.NoError(t, err)

	loaded, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.AvailableCopies)

	_, err = engine.Ledger().GetByID(ctx, created.ID)
	assert.NoError(t, err)
}

func testUnitOfWorkRollsBack(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	book := GivenBook(t, engine, "Hamlet", 1)
	borrowDate := core.NewDate(2024, time.January, 2)

	var created core.Transaction

	err := engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
		if _, err := tx.Catalog().AdjustAvailableCopies(ctx, book.ID, -1); err != nil {
			return err
		}

		var err error
		created, err = tx.Ledger().Create(ctx, book.ID, "reader-1", borrowDate, borrowDate.AddDays(14), core.Money{})
		if err != nil {
			return err
		}

		return errAbortUnitOfWork
	})
	assert.ErrorIs(t, err, errAbortUnitOfWork)

	loaded, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.AvailableCopies, "the decrement must be rolled back")

	_, err = engine.Ledger().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "the transaction must be rolled back")
}

func testConcurrentDecrements(t *testing.T, engine store.Engine) {
	ctx := context.Background()
	const copies = 3
	const borrowers = 10

	book := GivenBook(t, engine, "War and Peace", copies)

	var succeeded atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < borrowers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := engine.Atomically(ctx, func(ctx context.Context, tx store.Stores) error {
				_, err := tx.Catalog().AdjustAvailableCopies(ctx, book.ID, -1)
				return err
			})

			if err == nil {
				succeeded.Add(1)
				return
			}

			assert.ErrorIs(t, err, store.ErrInvariantViolation)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(copies), succeeded.Load())

	loaded, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.AvailableCopies)
}

func bookIDs(books []core.Book) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	return ids
}

func transactionIDs(transactions []core.Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		ids = append(ids, tx.ID)
	}

	return ids
}

func fineIDs(fines []core.Fine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(fines))
	for _, f := range fines {
		ids = append(ids, f.ID)
	}

	return ids
}
