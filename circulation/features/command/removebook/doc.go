// Package removebook deletes a catalog entry that no open loan refers to.
package removebook
