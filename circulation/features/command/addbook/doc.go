// Package addbook creates a catalog entry with all of its copies available.
// Only librarians may add books, and an ISBN may be catalogued once.
package addbook
