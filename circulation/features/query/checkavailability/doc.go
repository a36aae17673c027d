// Package checkavailability reports whether a book can be borrowed right now.
package checkavailability
