// Package observable wraps circulation command and query handlers with metrics, tracing,
// and logging while the handlers themselves stay pure load -> decide -> write workflows.
//
// Wrappers are applied explicitly at wiring time:
//
//	core := borrowbook.NewCommandHandler(engine)
//
//	handler, err := observable.NewCommandWrapper[borrowbook.Command, core.Transaction](
//		core,
//		observable.WithCommandMetrics[borrowbook.Command, core.Transaction](metricsCollector),
//		observable.WithCommandTracing[borrowbook.Command, core.Transaction](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbook.Command, core.Transaction](logger),
//	)
//
// Business rejections (*core.Failure) are recorded with status "rejected" and logged at
// info level; all other errors are recorded as faults and logged at error level.
//
// For unit tests of business logic use the unwrapped handlers.
package observable
