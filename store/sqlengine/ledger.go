package sqlengine

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

type ledger struct {
	s session
}

func (l ledger) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return l.list(ctx, goqu.C(colUserID).Eq(userID))
}

func (l ledger) ListAll(ctx context.Context) ([]core.Transaction, error) {
	return l.list(ctx)
}

func (l ledger) GetByID(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	var found core.Transaction

	err := l.s.engine.observe(ctx, opLedgerGetByID, nil, func(ctx context.Context) error {
		var err error
		found, err = l.load(ctx, l.s.reader(ctx), id)

		return err
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
		Fine:        core.MoneyFromCents(0),
		ExtendedFee: core.MoneyFromCents(extendedFee.Cents()),
	}

	err := l.s.engine.observe(ctx, opLedgerCreate, nil, func(ctx context.Context) error {
		return l.s.write(ctx, func(q adapters.Querier) error {
			stmt := l.s.engine.builder().
				Insert(l.s.engine.tables.transactions).
				Rows(transactionRecord(created)).
				Prepared(true)

			_, err := l.s.engine.exec(ctx, q, opLedgerCreate, stmt)

			return err
		})
	})
	if err != nil {
		return core.Transaction{}, err
	}

	return created, nil
}

func (l ledger) MarkReturned(ctx context.Context, id uuid.UUID, returnDate core.Date, fine core.Money) (core.Transaction, error) {
	return l.transition(ctx, opLedgerMarkReturned, id,
		goqu.Record{
			colStatus:     string(core.TransactionReturned),
			colReturnDate: returnDate.String(),
			colFineCents:  fine.Cents(),
		},
		goqu.C(colStatus).Eq(string(core.TransactionActive)),
	)
}

func (l ledger) ExtendDueDate(ctx context.Context, id uuid.UUID, expectedRenewals int, dueDate core.Date) (core.Transaction, error) {
	return l.transition(ctx, opLedgerExtendDueDate, id,
		goqu.Record{
			colDueDate:      dueDate.String(),
			colRenewalCount: goqu.L("? + 1", goqu.C(colRenewalCount)),
		},
		goqu.C(colStatus).Eq(string(core.TransactionActive)),
		goqu.C(colRenewalCount).Eq(expectedRenewals),
	)
}

func (l ledger) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	return l.countActive(ctx, goqu.C(colUserID).Eq(userID))
}

func (l ledger) CountActiveByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	return l.countActive(ctx, goqu.C(colBookID).Eq(bookID.String()))
}

func (l ledger) list(ctx context.Context, where ...exp.Expression) ([]core.Transaction, error) {
	transactions := make([]core.Transaction, 0)
	count := 0

	err := l.s.engine.observe(ctx, opLedgerList, &count, func(ctx context.Context) error {
		stmt := l.s.engine.builder().
			From(l.s.engine.tables.transactions).
			Select(transactionColumns...).
			Where(where...).
			Order(goqu.C(colSeq).Asc()).
			Prepared(true)

		err := l.s.engine.queryRows(ctx, l.s.reader(ctx), opLedgerList, stmt, func(rows adapters.DBRows) error {
			tx, err := scanTransaction(rows)
			if err != nil {
				return err
			}

			transactions = append(transactions, tx)

			return nil
		})

		count = len(transactions)

		return err
	})
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (l ledger) countActive(ctx context.Context, match exp.Expression) (int, error) {
	var count int64

	err := l.s.engine.observe(ctx, opLedgerCountActive, nil, func(ctx context.Context) error {
		stmt := l.s.engine.builder().
			From(l.s.engine.tables.transactions).
			Select(goqu.COUNT(goqu.Star())).
			Where(match, goqu.C(colStatus).Eq(string(core.TransactionActive))).
			Prepared(true)

		return l.s.engine.queryRows(ctx, l.s.reader(ctx), opLedgerCountActive, stmt, func(rows adapters.DBRows) error {
			return rows.Scan(&count)
		})
	})

	return int(count), err
}

// transition runs a conditional UPDATE. When no row matched, a follow-up read tells
// ErrNotFound apart from a failed precondition (ErrConcurrencyConflict).
func (l ledger) transition(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	set goqu.Record,
	preconditions ...exp.Expression,
) (core.Transaction, error) {

	var updated core.Transaction

	err := l.s.engine.observe(ctx, operation, nil, func(ctx context.Context) error {
		return l.s.write(ctx, func(q adapters.Querier) error {
			stmt := l.s.engine.builder().
				Update(l.s.engine.tables.transactions).
				Set(set).
				Where(append([]exp.Expression{goqu.C(colID).Eq(id.String())}, preconditions...)...).
				Prepared(true)

			rowsAffected, err := l.s.engine.exec(ctx, q, operation, stmt)
			if err != nil {
				return err
			}

			tx, err := l.load(ctx, q, id)
			if err != nil {
				return err
			}

			if rowsAffected == 0 {
				return store.ErrConcurrencyConflict
			}

			updated = tx

			return nil
		})
	})

	return updated, err
}

func (l ledger) load(ctx context.Context, q adapters.Querier, id uuid.UUID) (core.Transaction, error) {
	stmt := l.s.engine.builder().
		From(l.s.engine.tables.transactions).
		Select(transactionColumns...).
		Where(goqu.C(colID).Eq(id.String())).
		Prepared(true)

	var found *core.Transaction

	err := l.s.engine.queryRows(ctx, q, opLedgerGetByID, stmt, func(rows adapters.DBRows) error {
		tx, err := scanTransaction(rows)
		if err != nil {
			return err
		}

		found = &tx

		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	if found == nil {
		return core.Transaction{}, store.ErrNotFound
	}

	return *found, nil
}
