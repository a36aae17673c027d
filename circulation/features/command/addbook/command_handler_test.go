package addbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/features/command/addbook"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/memengine"
)

func Test_CommandHandler_Handle_CreatesBookWithAllCopiesAvailable(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	handler := addbook.NewCommandHandler(engine)

	// act
	book, result, err := handler.Handle(ctx, addbook.BuildCommand(core.Librarian("lib-1"), validDraft()))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Rejected)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, 2, book.TotalCopies)
	assert.Equal(t, 2, book.AvailableCopies)

	books, err := engine.Catalog().List(ctx, store.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func Test_CommandHandler_Handle_DuplicateISBN(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memengine.NewEngine()
	require.NoError(t, err)

	handler := addbook.NewCommandHandler(engine)
	_, _, err = handler.Handle(ctx, addbook.BuildCommand(core.Librarian("lib-1"), validDraft()))
	require.NoError(t, err)

	duplicate := validDraft()
	duplicate.ISBN = "9780441172719"

	// act
	_, result, err := handler.Handle(ctx, addbook.BuildCommand(core.Librarian("lib-1"), duplicate))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.True(t, result.Rejected)
}
