package sqlengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

type fines struct {
	s session
}

func (f fines) ListByUser(ctx context.Context, userID string) ([]core.Fine, error) {
	return f.list(ctx, goqu.C(colUserID).Eq(userID))
}

func (f fines) ListAll(ctx context.Context) ([]core.Fine, error) {
	return f.list(ctx)
}

func (f fines) GetByID(ctx context.Context, id uuid.UUID) (core.Fine, error) {
	var found core.Fine

	err := f.s.engine.observe(ctx, opFinesGetByID, nil, func(ctx context.Context) error {
		var err error
		found, err = f.load(ctx, f.s.reader(ctx), id)

		return err
	})

	return found, err
}

func (f fines) Create(ctx context.Context, charge core.FineCharge) (core.Fine, error) {
	created := core.Fine{
		ID:            f.s.nextID(),
		TransactionID: charge.TransactionID,
		UserID:        charge.UserID,
		BookTitle:     charge.BookTitle,
		Amount:        charge.Amount,
		Reason:        charge.Reason,
		Status:        core.FinePending,
		DueDate:       charge.DueDate,
		ReturnDate:    charge.ReturnDate,
		CreatedAt:     charge.CreatedAt,
	}

	err := f.s.engine.observe(ctx, opFinesCreate, nil, func(ctx context.Context) error {
		return f.s.write(ctx, func(q adapters.Querier) error {
			stmt := f.s.engine.builder().
				Insert(f.s.engine.tables.fines).
				Rows(fineRecord(created)).
				Prepared(true)

			_, err := f.s.engine.exec(ctx, q, opFinesCreate, stmt)

			return err
		})
	})
	if err != nil {
		return core.Fine{}, err
	}

	return created, nil
}

func (f fines) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, payment core.Payment) (core.Fine, error) {
	return f.settle(ctx, opFinesMarkPaid, id, goqu.Record{
		colStatus:           string(core.FinePaid),
		colPaidAt:           formatTimestamp(paidAt),
		colPaymentMethod:    payment.Method,
		colPaymentReference: payment.Reference,
	})
}

func (f fines) MarkWaived(ctx context.Context, id uuid.UUID, waivedAt time.Time, waiver core.Waiver) (core.Fine, error) {
	return f.settle(ctx, opFinesMarkWaived, id, goqu.Record{
		colStatus:       string(core.FineWaived),
		colWaivedAt:     formatTimestamp(waivedAt),
		colWaivedBy:     waiver.By,
		colWaiverReason: waiver.Reason,
	})
}

func (f fines) list(ctx context.Context, where ...exp.Expression) ([]core.Fine, error) {
	out := make([]core.Fine, 0)
	count := 0

	err := f.s.engine.observe(ctx, opFinesList, &count, func(ctx context.Context) error {
		stmt := f.s.engine.builder().
			From(f.s.engine.tables.fines).
			Select(fineColumns...).
			Where(where...).
			Order(goqu.C(colSeq).Asc()).
			Prepared(true)

		err := f.s.engine.queryRows(ctx, f.s.reader(ctx), opFinesList, stmt, func(rows adapters.DBRows) error {
			fine, err := scanFine(rows)
			if err != nil {
				return err
			}

			out = append(out, fine)

			return nil
		})

		count = len(out)

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// settle moves a pending fine to its final status in one conditional UPDATE.
func (f fines) settle(ctx context.Context, operation string, id uuid.UUID, set goqu.Record) (core.Fine, error) {
	var updated core.Fine

	err := f.s.engine.observe(ctx, operation, nil, func(ctx context.Context) error {
		return f.s.write(ctx, func(q adapters.Querier) error {
			stmt := f.s.engine.builder().
				Update(f.s.engine.tables.fines).
				Set(set).
				Where(
					goqu.C(colID).Eq(id.String()),
					goqu.C(colStatus).Eq(string(core.FinePending)),
				).
				Prepared(true)

			rowsAffected, err := f.s.engine.exec(ctx, q, operation, stmt)
			if err != nil {
				return err
			}

			fine, err := f.load(ctx, q, id)
			if err != nil {
				return err
			}

			if rowsAffected == 0 {
				return store.ErrConcurrencyConflict
			}

			updated = fine

			return nil
		})
	})

	return updated, err
}

func (f fines) load(ctx context.Context, q adapters.Querier, id uuid.UUID) (core.Fine, error) {
	stmt := f.s.engine.builder().
		From(f.s.engine.tables.fines).
		Select(fineColumns...).
		Where(goqu.C(colID).Eq(id.String())).
		Prepared(true)

	var found *core.Fine

	err := f.s.engine.queryRows(ctx, q, opFinesGetByID, stmt, func(rows adapters.DBRows) error {
		fine, err := scanFine(rows)
		if err != nil {
			return err
		}

		found = &fine

		return nil
	})
	if err != nil {
		return core.Fine{}, err
	}

	if found == nil {
		return core.Fine{}, store.ErrNotFound
	}

	return *found, nil
}
