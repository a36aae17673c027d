// Package renewloan moves the due date of an active loan, by core.RenewalDays unless the borrower asks for another length.
//
// A loan can be renewed at most core.MaxRenewals times and never once it is overdue.
// The write is a check-and-set on the renewal count, so two concurrent renewals of the
// same loan cannot both succeed.
package renewloan
