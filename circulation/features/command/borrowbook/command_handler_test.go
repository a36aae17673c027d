package borrowbook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/command/borrowbook"
	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/testutil/storetest"
)

func givenEngine(t *testing.T) *memengine.Engine {
	t.Helper()

	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	return engine
}

func fastRetries() borrowbook.Option {
	return borrowbook.WithRetryOptions(shell.WithBaseDelay(time.Millisecond))
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 2)
	handler := borrowbook.NewCommandHandler(engine)

	// act
	txn, result, err := handler.Handle(ctx, borrowbook.BuildCommand(book.ID, core.Member("m-1"), core.Extended(45), borrowDate))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Rejected)
	assert.Equal(t, 1, result.RetryAttempts)

	assert.Equal(t, book.ID, txn.BookID)
	assert.Equal(t, "m-1", txn.UserID)
	assert.Equal(t, core.TransactionActive, txn.Status)
	assert.Equal(t, core.NewDate(2025, 4, 15), txn.DueDate)
	assert.Equal(t, "15.00", txn.ExtendedFee.String())
	assert.Equal(t, "0.00", txn.Fine.String())
	assert.Nil(t, txn.ReturnDate)

	stored, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies)
}

func Test_CommandHandler_Handle_NoCopiesAvailable_WritesNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 1)
	handler := borrowbook.NewCommandHandler(engine)

	_, _, err := handler.Handle(ctx, borrowbook.BuildCommand(book.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))
	require.NoError(t, err)

	// act
	_, result, err := handler.Handle(ctx, borrowbook.BuildCommand(book.ID, core.Member("m-2"), core.TwoWeeks(), borrowDate))

	// assert
	assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
	assert.True(t, result.Rejected)

	transactions, err := engine.Ledger().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)

	stored, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)
}

func Test_CommandHandler_Handle_UnknownBook(t *testing.T) {
	handler := borrowbook.NewCommandHandler(givenEngine(t))

	_, result, err := handler.Handle(context.Background(), borrowbook.BuildCommand(uuid.New(), core.Member("m-1"), core.TwoWeeks(), borrowDate))

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.True(t, result.Rejected)
}

func Test_CommandHandler_Handle_LoanLimit(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 10)
	handler := borrowbook.NewCommandHandler(engine)

	for range core.MaxActiveLoansPerUser {
		_, _, err := handler.Handle(ctx, borrowbook.BuildCommand(book.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))
		require.NoError(t, err)
	}

	// act
	_, _, err := handler.Handle(ctx, borrowbook.BuildCommand(book.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanLimitReached)
}

func Test_CommandHandler_Handle_OverdueLoanBlocksBorrowing(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	held := storetest.GivenBook(t, engine, "Dune", 1)
	wanted := storetest.GivenBook(t, engine, "Emma", 1)
	storetest.GivenLoan(t, engine, held, "m-1", core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 23))
	handler := borrowbook.NewCommandHandler(engine)

	// act
	_, result, err := handler.Handle(ctx, borrowbook.BuildCommand(wanted.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	// assert
	assert.ErrorIs(t, err, core.ErrOutstandingObligations)
	assert.True(t, result.Rejected)

	stored, err := engine.Catalog().GetByID(ctx, wanted.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableCopies)
}

func Test_CommandHandler_Handle_PendingFineBlocksBorrowing(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	returned := storetest.GivenBook(t, engine, "Dune", 1)
	wanted := storetest.GivenBook(t, engine, "Emma", 1)
	loan := storetest.GivenLoan(t, engine, returned, "m-1", core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 15))
	loan, err := engine.Ledger().MarkReturned(ctx, loan.ID, core.NewDate(2025, 2, 21), core.Dollars(6))
	require.NoError(t, err)
	fine := storetest.GivenPendingFine(t, engine, loan, returned.Title, core.Dollars(6))
	handler := borrowbook.NewCommandHandler(engine)

	// act
	_, blockedResult, blockedErr := handler.Handle(ctx, borrowbook.BuildCommand(wanted.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	_, err = engine.Fines().MarkPaid(ctx, fine.ID, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), core.Payment{Method: "cash"})
	require.NoError(t, err)

	_, _, paidUpErr := handler.Handle(ctx, borrowbook.BuildCommand(wanted.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	// assert
	assert.ErrorIs(t, blockedErr, core.ErrOutstandingObligations)
	assert.True(t, blockedResult.Rejected)
	assert.Contains(t, blockedErr.Error(), "6.00")
	assert.NoError(t, paidUpErr)
}

func Test_CommandHandler_Handle_OtherUsersObligationsDoNotBlock(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	held := storetest.GivenBook(t, engine, "Dune", 1)
	wanted := storetest.GivenBook(t, engine, "Emma", 1)
	loan := storetest.GivenLoan(t, engine, held, "m-2", core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 15))
	storetest.GivenPendingFine(t, engine, loan, held.Title, core.Dollars(3))
	handler := borrowbook.NewCommandHandler(engine)

	// act
	_, _, err := handler.Handle(ctx, borrowbook.BuildCommand(wanted.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	// assert
	assert.NoError(t, err)
}

func Test_CommandHandler_Handle_RetriesConcurrencyConflicts(t *testing.T) {
	// arrange
	engine := storetest.NewConflictingEngine(givenEngine(t), 2)
	book := storetest.GivenBook(t, engine, "Dune", 1)
	handler := borrowbook.NewCommandHandler(engine, fastRetries())

	// act
	_, result, err := handler.Handle(context.Background(), borrowbook.BuildCommand(book.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.Equal(t, 3, engine.Attempts())
}

func Test_CommandHandler_Handle_RetriesExhausted(t *testing.T) {
	// arrange
	engine := storetest.NewConflictingEngine(givenEngine(t), 100)
	book := storetest.GivenBook(t, engine, "Dune", 1)
	handler := borrowbook.NewCommandHandler(engine, borrowbook.WithRetryOptions(
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(time.Millisecond),
	))

	// act
	_, result, err := handler.Handle(context.Background(), borrowbook.BuildCommand(book.ID, core.Member("m-1"), core.TwoWeeks(), borrowDate))

	// assert
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)
	assert.True(t, result.RetriesExhausted)
	assert.False(t, result.Rejected)
}

func Test_CommandHandler_Handle_ConcurrentBorrowsNeverOversell(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine := givenEngine(t)
	book := storetest.GivenBook(t, engine, "Dune", 3)
	handler := borrowbook.NewCommandHandler(engine, fastRetries())

	const borrowers = 10

	var wg sync.WaitGroup
	errs := make([]error, borrowers)

	// act
	for i := range borrowers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = handler.Handle(ctx, borrowbook.BuildCommand(book.ID, core.Member(uuid.NewString()), core.TwoWeeks(), borrowDate))
		}()
	}

	wg.Wait()

	// assert
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
	}

	assert.Equal(t, 3, succeeded)

	stored, err := engine.Catalog().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)
}
