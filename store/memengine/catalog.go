package memengine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

type catalog struct {
	s session
}

func (c catalog) List(ctx context.Context, filter store.BookFilter) ([]core.Book, error) {
	var books []core.Book

	err := c.s.read(ctx, func(t *tables) error {
		books = make([]core.Book, 0, len(t.books))
		for _, b := range t.books {
			if filter.Matches(b) {
				books = append(books, b)
			}
		}

		return nil
	})

	return books, err
}

func (c catalog) GetByID(ctx context.Context, id uuid.UUID) (core.Book, error) {
	var book core.Book

	err := c.s.read(ctx, func(t *tables) error {
		i, ok := t.bookIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		book = t.books[i]

		return nil
	})

	return book, err
}

func (c catalog) Create(ctx context.Context, draft core.BookDraft) (core.Book, error) {
	book := draft.NewBook(c.s.nextID())

	err := c.s.write(ctx, func(t *tables) error {
		t.bookIndex[book.ID] = len(t.books)
		t.books = append(t.books, book)

		return nil
	})

	return book, err
}

func (c catalog) Update(ctx context.Context, id uuid.UUID, patch core.BookPatch) (core.Book, error) {
	var book core.Book

	err := c.s.write(ctx, func(t *tables) error {
		i, ok := t.bookIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		patched, err := patch.ApplyTo(t.books[i])
		if err != nil {
			return errors.Join(store.ErrInvariantViolation, err)
		}

		t.books[i] = patched
		book = patched

		return nil
	})

	return book, err
}

func (c catalog) Delete(ctx context.Context, id uuid.UUID) error {
	return c.s.write(ctx, func(t *tables) error {
		i, ok := t.bookIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		t.removeBook(i)

		return nil
	})
}

func (c catalog) AdjustAvailableCopies(ctx context.Context, id uuid.UUID, delta int) (core.Book, error) {
	var book core.Book

	err := c.s.write(ctx, func(t *tables) error {
		i, ok := t.bookIndex[id]
		if !ok {
			return store.ErrNotFound
		}

		b := t.books[i]

		next := b.AvailableCopies + delta
		if next < 0 || next > b.TotalCopies {
			return store.ErrInvariantViolation
		}

		b.AvailableCopies = next
		t.books[i] = b
		book = b

		return nil
	})

	return book, err
}
