package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

func Test_BookFilter_Matches(t *testing.T) {
	book := core.Book{
		ISBN:            "978-3-16-148410-0",
		Title:           "Straße der Ölsardinen",
		Author:          "John Steinbeck",
		Genre:           "Fiction",
		TotalCopies:     2,
		AvailableCopies: 0,
	}

	testCases := []struct {
		name     string
		filter   store.BookFilter
		expected bool
	}{
		{name: "empty filter", filter: store.BuildBookFilter().Finalize(), expected: true},
		{name: "title, different case", filter: store.BuildBookFilter().Searching("STRAßE DER ÖL").Finalize(), expected: true},
		{name: "author substring", filter: store.BuildBookFilter().Searching("steinb").Finalize(), expected: true},
		{name: "isbn substring", filter: store.BuildBookFilter().Searching("148410").Finalize(), expected: true},
		{name: "no match", filter: store.BuildBookFilter().Searching("tolkien").Finalize(), expected: false},
		{name: "term spanning two fields", filter: store.BuildBookFilter().Searching("ölsardinenjohn").Finalize(), expected: false},
		{name: "genre exact", filter: store.BuildBookFilter().InGenre("Fiction").Finalize(), expected: true},
		{name: "genre differs", filter: store.BuildBookFilter().InGenre("fiction").Finalize(), expected: false},
		{name: "available only", filter: store.BuildBookFilter().AvailableOnly().Finalize(), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(book))
		})
	}
}

func Test_BookFilter_IsEmpty(t *testing.T) {
	assert.True(t, store.BookFilter{}.IsEmpty())
	assert.True(t, store.BuildBookFilter().Searching("   ").Finalize().IsEmpty())
	assert.False(t, store.BuildBookFilter().AvailableOnly().Finalize().IsEmpty())
}
