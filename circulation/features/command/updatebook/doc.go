// Package updatebook edits a catalog entry.
//
// AvailableCopies is never patched directly. Changing TotalCopies moves it by the same
// delta, and the total cannot drop below the number of copies on loan.
package updatebook
