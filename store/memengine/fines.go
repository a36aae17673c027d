package memengine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

type fines struct {
	s session
}

func (f fines) ListByUser(ctx context.Context, userID string) ([]core.Fine, error) {
	return f.list(ctx, func(fine core.Fine) bool { return fine.UserID == userID })
}

func (f fines) ListAll(ctx context.Context) ([]core.Fine, error) {
	return f.list(ctx, func(core.Fine) bool { return true })
}

func (f fines) GetByID(ctx context.Context, id uuid.UUID) (core.Fine, error) {
	var found core.Fine

	err := f.s.read(ctx, func(t *tables) error {
		i, ok := t.fineIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		found = t.fines[i]

		return nil
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

	err := f.s.write(ctx, func(t *tables) error {
		t.fineIndex[created.ID] = len(t.fines)
		t.fines = append(t.fines, created)

		return nil
	})

	return created, err
}

func (f fines) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, payment core.Payment) (core.Fine, error) {
	return f.settle(ctx, id, func(fine core.Fine) core.Fine {
		fine.Status = core.FinePaid
		fine.PaidAt = &paidAt
		fine.PaymentMethod = payment.Method
		fine.PaymentReference = payment.Reference

		return fine
	})
}

func (f fines) MarkWaived(ctx context.Context, id uuid.UUID, waivedAt time.Time, waiver core.Waiver) (core.Fine, error) {
	return f.settle(ctx, id, func(fine core.Fine) core.Fine {
		fine.Status = core.FineWaived
		fine.WaivedAt = &waivedAt
		fine.WaivedBy = waiver.By
		fine.WaiverReason = waiver.Reason

		return fine
	})
}

func (f fines) list(ctx context.Context, keep func(core.Fine) bool) ([]core.Fine, error) {
	var out []core.Fine

	err := f.s.read(ctx, func(t *tables) error {
		out = make([]core.Fine, 0)
		for _, fine := range t.fines {
			if keep(fine) {
				out = append(out, fine)
			}
		}

		return nil
	})

	return out, err
}

// settle moves a pending fine to its final status.
func (f fines) settle(ctx context.Context, id uuid.UUID, apply func(core.Fine) core.Fine) (core.Fine, error) {
	var updated core.Fine

	err := f.s.write(ctx, func(t *tables) error {
		i, ok := t.fineIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		if !t.fines[i].IsPending() {
			return store.ErrConcurrencyConflict
		}

		updated = apply(t.fines[i])
		t.fines[i] = updated

		return nil
	})

	return updated, err
}
