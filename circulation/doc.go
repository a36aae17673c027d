// Package circulation is the entry point to the library's circulation rules.
//
// Service builds one handler per command and query feature slice, wraps each with
// observability, and fills in the dates and timestamps callers leave zero from its
// clock. It is the only way the HTTP API and the CLI touch the stores, so every
// invariant of the catalog, the ledger, and the fines is enforced here.
//
// Example usage:
//
//	service, err := circulation.NewService(engine,
//		circulation.WithContextualLogger(logger),
//		circulation.WithMetrics(metrics),
//	)
//	if err != nil { ... }
//
//	txn, err := service.BorrowBook(ctx, borrowbook.BuildCommand(bookID, actor, core.TwoWeeks(), core.Date{}))
package circulation
