// Package returnbook closes an active loan.
//
// The copy goes back on the shelf and, when the return is late, a pending Fine is
// created with the book title denormalized into it. Closing the transaction, the copy
// count and the fine commit in one unit of work.
package returnbook
