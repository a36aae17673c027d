// Package overdueloans lists active loans past their due date for librarians,
// oldest due date first.
package overdueloans
