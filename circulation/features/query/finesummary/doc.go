// Package finesummary totals fines by status for one user or the whole library.
package finesummary
