package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/sqlengine/internal/adapters"
)

type catalog struct {
	s session
}

func (c catalog) List(ctx context.Context, filter store.BookFilter) ([]core.Book, error) {
	books := make([]core.Book, 0)
	count := 0

	err := c.s.engine.observe(ctx, opCatalogList, &count, func(ctx context.Context) error {
		ds := c.s.engine.builder().
			From(c.s.engine.tables.books).
			Select(bookColumns...).
			Order(goqu.C(colSeq).Asc())

		if filter.Genre != "" {
			ds = ds.Where(goqu.C(colGenre).Eq(filter.Genre))
		}

		if filter.AvailableOnly {
			ds = ds.Where(goqu.C(colAvailableCopies).Gt(0))
		}

		if filter.Search != "" {
			pattern := containsPattern(store.FoldSearchText(filter.Search))
			ds = ds.Where(goqu.L(`? LIKE ? ESCAPE '\'`, goqu.C(colSearchKey), pattern))
		}

		err := c.s.engine.queryRows(ctx, c.s.reader(ctx), opCatalogList, ds.Prepared(true), func(rows adapters.DBRows) error {
			book, err := scanBook(rows)
			if err != nil {
				return err
			}

			books = append(books, book)

			return nil
		})

		count = len(books)

		return err
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

func (c catalog) GetByID(ctx context.Context, id uuid.UUID) (core.Book, error) {
	var book core.Book

	err := c.s.engine.observe(ctx, opCatalogGetByID, nil, func(ctx context.Context) error {
		var err error
		book, err = c.load(ctx, c.s.reader(ctx), id)

		return err
	})

	return book, err
}

func (c catalog) Create(ctx context.Context, draft core.BookDraft) (core.Book, error) {
	book := draft.NewBook(c.s.nextID())

	err := c.s.engine.observe(ctx, opCatalogCreate, nil, func(ctx context.Context) error {
		return c.s.write(ctx, func(q adapters.Querier) error {
			stmt := c.s.engine.builder().
				Insert(c.s.engine.tables.books).
				Rows(bookRecord(book)).
				Prepared(true)

			_, err := c.s.engine.exec(ctx, q, opCatalogCreate, stmt)

			return err
		})
	})
	if err != nil {
		return core.Book{}, err
	}

	return book, nil
}

// Update is a check-and-set against the loaded copy counts, so a concurrent
// borrow or return between the read and the write surfaces as a conflict.
func (c catalog) Update(ctx context.Context, id uuid.UUID, patch core.BookPatch) (core.Book, error) {
	var updated core.Book

	err := c.s.engine.observe(ctx, opCatalogUpdate, nil, func(ctx context.Context) error {
		return c.s.write(ctx, func(q adapters.Querier) error {
			current, err := c.load(ctx, q, id)
			if err != nil {
				return err
			}

			patched, err := patch.ApplyTo(current)
			if err != nil {
				return errors.Join(store.ErrInvariantViolation, err)
			}

			record := bookRecord(patched)
			delete(record, colID)

			stmt := c.s.engine.builder().
				Update(c.s.engine.tables.books).
				Set(record).
				Where(
					goqu.C(colID).Eq(id.String()),
					goqu.C(colTotalCopies).Eq(current.TotalCopies),
					goqu.C(colAvailableCopies).Eq(current.AvailableCopies),
				).
				Prepared(true)

			rowsAffected, err := c.s.engine.exec(ctx, q, opCatalogUpdate, stmt)
			if err != nil {
				return err
			}

			if rowsAffected == 0 {
				return store.ErrConcurrencyConflict
			}

			updated = patched

			return nil
		})
	})

	return updated, err
}

func (c catalog) Delete(ctx context.Context, id uuid.UUID) error {
	return c.s.engine.observe(ctx, opCatalogDelete, nil, func(ctx context.Context) error {
		return c.s.write(ctx, func(q adapters.Querier) error {
			stmt := c.s.engine.builder().
				Delete(c.s.engine.tables.books).
				Where(goqu.C(colID).Eq(id.String())).
				Prepared(true)

			rowsAffected, err := c.s.engine.exec(ctx, q, opCatalogDelete, stmt)
			if err != nil {
				return err
			}

			if rowsAffected == 0 {
				return store.ErrNotFound
			}

			return nil
		})
	})
}

func (c catalog) AdjustAvailableCopies(ctx context.Context, id uuid.UUID, delta int) (core.Book, error) {
	var adjusted core.Book

	err := c.s.engine.observe(ctx, opCatalogAdjust, nil, func(ctx context.Context) error {
		return c.s.write(ctx, func(q adapters.Querier) error {
			stmt := c.s.engine.builder().
				Update(c.s.engine.tables.books).
				Set(goqu.Record{colAvailableCopies: goqu.L("? + ?", goqu.C(colAvailableCopies), delta)}).
				Where(
					goqu.C(colID).Eq(id.String()),
					goqu.L("? + ? BETWEEN 0 AND ?", goqu.C(colAvailableCopies), delta, goqu.C(colTotalCopies)),
				).
				Prepared(true)

			rowsAffected, err := c.s.engine.exec(ctx, q, opCatalogAdjust, stmt)
			if err != nil {
				return err
			}

			book, err := c.load(ctx, q, id)
			if err != nil {
				return err
			}

			if rowsAffected == 0 {
				return store.ErrInvariantViolation
			}

			adjusted = book

			return nil
		})
	})

	return adjusted, err
}

// load reads one book through q; ErrNotFound if there is none.
func (c catalog) load(ctx context.Context, q adapters.Querier, id uuid.UUID) (core.Book, error) {
	stmt := c.s.engine.builder().
		From(c.s.engine.tables.books).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id.String())).
		Prepared(true)

	var found *core.Book

	err := c.s.engine.queryRows(ctx, q, opCatalogGetByID, stmt, func(rows adapters.DBRows) error {
		book, err := scanBook(rows)
		if err != nil {
			return err
		}

		found = &book

		return nil
	})
	if err != nil {
		return core.Book{}, err
	}

	if found == nil {
		return core.Book{}, store.ErrNotFound
	}

	return *found, nil
}
