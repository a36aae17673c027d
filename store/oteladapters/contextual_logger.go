package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/stanleyamo/library-management-system/store"
)

// SlogBridgeLogger implements store.ContextualLogger on top of log/slog.
// Built with NewSlogBridgeLogger it writes through the OpenTelemetry slog bridge,
// which adds trace and span ids from the context to every record.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a logger that emits to the global OpenTelemetry LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler creates a logger that writes to handler as-is,
// without OpenTelemetry trace correlation.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

// Slog exposes the underlying *slog.Logger, e.g. for components that want a plain logger.
func (l *SlogBridgeLogger) Slog() *slog.Logger {
	return l.logger
}

var _ store.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger implements store.ContextualLogger with the OpenTelemetry log API directly.
type OTelLogger struct {
	logger log.Logger
}

// NewOTelLogger wraps an OpenTelemetry log.Logger.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args)
}

// emit builds one log record. Args are slog-style key/value pairs; a trailing key
// without a value is dropped.
func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args []any) {
	var record log.Record
	record.SetSeverity(severity)
	record.SetSeverityText(severity.String())
	record.SetBody(log.StringValue(msg))

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		record.AddAttributes(log.KeyValue{Key: key, Value: logValue(args[i+1])})
	}

	l.logger.Emit(ctx, record)
}

// logValue keeps numbers and booleans typed; everything else is rendered by slog.
func logValue(v any) log.Value {
	switch x := v.(type) {
	case string:
		return log.StringValue(x)
	case bool:
		return log.BoolValue(x)
	case int:
		return log.IntValue(x)
	case int64:
		return log.Int64Value(x)
	case float64:
		return log.Float64Value(x)
	case error:
		return log.StringValue(x.Error())
	default:
		return log.StringValue(slog.AnyValue(v).String())
	}
}

var _ store.ContextualLogger = (*OTelLogger)(nil)
