package store

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/stanleyamo/library-management-system/core"
)

// BookFilter restricts CatalogStore.List. Zero-valued options do not restrict.
type BookFilter struct {
	// Search is matched case-insensitively as a substring of title, author, or ISBN.
	Search string

	// Genre must match exactly.
	Genre string

	// AvailableOnly keeps books with at least one available copy.
	AvailableOnly bool
}

// BookFilterBuilder builds a BookFilter step by step.
type BookFilterBuilder struct {
	filter BookFilter
}

// BuildBookFilter starts an unrestricted filter.
//
// Example usage:
//
//	filter := store.BuildBookFilter().
//		Searching("tolkien").
//		InGenre("Fantasy").
//		AvailableOnly().
//		Finalize()
func BuildBookFilter() BookFilterBuilder {
	return BookFilterBuilder{}
}

// Searching sets the free-text search term.
func (b BookFilterBuilder) Searching(term string) BookFilterBuilder {
	b.filter.Search = strings.TrimSpace(term)
	return b
}

// InGenre restricts results to one genre.
func (b BookFilterBuilder) InGenre(genre string) BookFilterBuilder {
	b.filter.Genre = genre
	return b
}

// AvailableOnly keeps only books that can be borrowed right now.
func (b BookFilterBuilder) AvailableOnly() BookFilterBuilder {
	b.filter.AvailableOnly = true
	return b
}

// Finalize returns the built filter.
func (b BookFilterBuilder) Finalize() BookFilter {
	return b.filter
}

// IsEmpty reports whether the filter restricts nothing.
func (f BookFilter) IsEmpty() bool {
	return f == BookFilter{}
}

// Matches applies the filter to a single book.
func (f BookFilter) Matches(book core.Book) bool {
	if f.Genre != "" && book.Genre != f.Genre {
		return false
	}

	if f.AvailableOnly && !book.IsAvailable() {
		return false
	}

	if f.Search == "" {
		return true
	}

	return strings.Contains(SearchKey(book), FoldSearchText(f.Search))
}

// FoldSearchText case-folds s for caseless comparison.
func FoldSearchText(s string) string {
	return cases.Fold().String(s)
}

// SearchKey is the folded text a search term is matched against. Fields are
// separated by the ASCII unit separator so a term never matches across two fields.
func SearchKey(book core.Book) string {
	return FoldSearchText(book.Title + searchKeySeparator + book.Author + searchKeySeparator + book.ISBN)
}

const searchKeySeparator = "\x1f"
