// Package getbook returns one catalog entry.
package getbook
