// Package core contains the circulation domain of a public library:
// books, loans (called transactions), and fines, plus the pure rules that
// govern how a copy moves from available to borrowed to returned.
//
// Nothing in this package performs I/O. Borrow periods, overdue fines, the
// fine projection for open loans, validation, and the failure taxonomy live
// here, so the command and query handlers only load state, call a Decide or
// Project function, and write the outcome.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
