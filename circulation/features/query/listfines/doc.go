// Package listfines lists fines, scoped like loans: members see their own fines,
// librarians those of one user or of everyone.
package listfines
