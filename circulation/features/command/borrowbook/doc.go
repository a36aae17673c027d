// Package borrowbook implements the Borrow Book use case.
//
// A member borrows one copy of a book for a selected period. The handler loads the
// book together with the member's loans and fines, lets the pure Decide function derive
// the loan terms or the reason for refusal, and then decrements the available copies
// and opens the transaction in one unit of work. A member with an overdue loan or a
// pending fine is turned away until it is settled.
//
// A decrement that fails because another borrower took the last copy in the meantime is
// reported as a concurrency conflict, so the retry decides again on fresh data and
// answers NoCopiesAvailable.
package borrowbook
