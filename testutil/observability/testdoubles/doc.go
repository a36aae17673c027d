// Package testdoubles provides spies for the observability interfaces of the store
// engines and the circulation handlers:
//   - MetricsCollectorSpy records durations, counters, and values
//   - TracingCollectorSpy records started and finished spans
//   - ContextualLoggerSpy records context-aware log calls per level
//   - LogHandlerSpy is a slog.Handler that keeps every record
//
// Each spy can be created with recording switched off, which turns it into a no-op.
package testdoubles
