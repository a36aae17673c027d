// Package waivefine lets a librarian forgive a pending fine.
package waivefine
