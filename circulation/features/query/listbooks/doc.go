// Package listbooks implements the catalog search.
//
// Search is matched case-insensitively against title, author and ISBN; genre must match
// exactly; availableOnly keeps books with at least one copy on the shelf. Results keep
// insertion order.
package listbooks
