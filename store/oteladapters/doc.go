// Package oteladapters provides OpenTelemetry implementations of the store observability
// interfaces (store.ContextualLogger, store.ContextualMetricsCollector, store.TracingCollector).
// The same adapters are accepted by the circulation handlers, whose observability
// interfaces are aliases of the store ones.
//
//	logger := oteladapters.NewSlogBridgeLogger("library")
//	metrics := oteladapters.NewMetricsCollector(otel.Meter("library"))
//	tracing := oteladapters.NewTracingCollector(otel.Tracer("library"))
package oteladapters
