// Package payfine settles a pending fine.
package payfine
