// Package shell holds the infrastructure shared by the circulation feature slices:
// handler contracts, retry with exponential backoff, handler results, and the
// observability helpers the observable wrappers build on.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer. The business rules live in core and in the
// pure Decide and Project functions of each feature slice.
package shell
