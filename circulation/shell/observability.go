package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
)

const (
	// CommandDurationMetric tracks command handler execution duration in seconds.
	CommandDurationMetric = "circulation_command_duration_seconds"

	// CommandCallsMetric counts command handler calls by command type and status.
	CommandCallsMetric = "circulation_commands_total"

	// CommandRejectedMetric counts commands refused by a business rule, labeled with the failure kind.
	CommandRejectedMetric = "circulation_command_rejections_total"

	// CommandRetriesMetric counts retried command executions.
	//
	// Labels:
	//   - command_type: e.g. "BorrowBook"
	//   - attempt_number: number of retries that were needed
	//   - error_type: final error type, e.g. "none" or "concurrency_conflict"
	CommandRetriesMetric = "circulation_command_retries_total"

	// CommandRetryDelayMetric tracks the total backoff delay of retried commands.
	CommandRetryDelayMetric = "circulation_command_retry_delay_seconds"

	// CommandMaxRetriesReachedMetric counts commands that failed after exhausting all attempts.
	// Alert on: increase(circulation_command_max_retries_reached_total[5m]) > 0
	CommandMaxRetriesReachedMetric = "circulation_command_max_retries_reached_total"

	// QueryDurationMetric tracks query handler execution duration in seconds.
	QueryDurationMetric = "circulation_query_duration_seconds"

	// QueryCallsMetric counts query handler calls by query type and status.
	QueryCallsMetric = "circulation_queries_total"

	StatusSuccess             = "success"
	StatusRejected            = "rejected"
	StatusError               = "error"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "concurrency_conflict"

	ErrorTypeNone                    = "none"
	ErrorTypeConcurrencyConflict     = "concurrency_conflict"
	ErrorTypeBusinessFailure         = "business_failure"
	ErrorTypeContextCanceled         = "context_canceled"
	ErrorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	ErrorTypeOther                   = "other"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryRejected    = "query handler rejected"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType   = "command_type"
	LogAttrQueryType     = "query_type"
	LogAttrStatus        = "status"
	LogAttrDurationMS    = "duration_ms"
	LogAttrError         = "error"
	LogAttrFailureKind   = "failure_kind"
	LogAttrReason        = "reason"
	LogAttrAttemptNumber = "attempt_number"
	LogAttrErrorType     = "error_type"

	SpanNameCommandHandle = "circulation.command.handle"
	SpanNameQueryHandle   = "circulation.query.handle"
)

// Interface aliases so feature slices and wrappers accept the same collectors as the store engines.

// MetricsCollector collects handler metrics.
type MetricsCollector = store.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = store.ContextualMetricsCollector

// TracingCollector creates handler spans.
type TracingCollector = store.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = store.SpanContext

// ContextualLogger logs with trace correlation.
type ContextualLogger = store.ContextualLogger

// Logger is the plain logging interface.
type Logger = store.Logger

// StatusOf maps a handler error to its outcome status.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, store.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case core.IsFailure(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// BuildCommandLabels creates the standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates the standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates the metric labels for retried commands.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType:   commandType,
		LogAttrAttemptNumber: fmt.Sprintf("%d", attemptNumber),
		LogAttrErrorType:     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of one command; rejections are
// additionally counted per failure kind.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
	err error,
) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	RecordDuration(ctx, collector, CommandDurationMetric, duration, labels)
	IncrementCounter(ctx, collector, CommandCallsMetric, labels)

	if failure, ok := core.AsFailure(err); ok && status == StatusRejected {
		rejectedLabels := BuildCommandLabels(commandType, status)
		rejectedLabels[LogAttrFailureKind] = string(failure.Kind)
		IncrementCounter(ctx, collector, CommandRejectedMetric, rejectedLabels)
	}
}

// RecordQueryMetrics records duration and call count of one query.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	RecordDuration(ctx, collector, QueryDurationMetric, duration, labels)
	IncrementCounter(ctx, collector, QueryCallsMetric, labels)
}

// RecordRetryMetrics records the retry metadata of one command execution.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		IncrementCounter(ctx, collector, CommandRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType))
		RecordDuration(ctx, collector, CommandRetryDelayMetric, result.TotalRetryDelay,
			map[string]string{LogAttrCommandType: commandType})
	}

	if result.RetriesExhausted {
		IncrementCounter(ctx, collector, CommandMaxRetriesReachedMetric,
			map[string]string{LogAttrCommandType: commandType, LogAttrErrorType: result.LastErrorType})
	}
}

// RecordDuration prefers the context-aware method when the collector has one.
func RecordDuration(ctx context.Context, collector MetricsCollector, metric string, d time.Duration, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	collector.RecordDuration(metric, d, labels)
}

// IncrementCounter prefers the context-aware method when the collector has one.
func IncrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartCommandSpan starts a span for a command, or returns ctx and nil when tracing is disabled.
func StartCommandSpan(ctx context.Context, tracingCollector TracingCollector, commandType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{LogAttrCommandType: commandType})
}

// StartQuerySpan starts a span for a query, or returns ctx and nil when tracing is disabled.
func StartQuerySpan(ctx context.Context, tracingCollector TracingCollector, queryType string) (context.Context, SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan completes a handler span with the outcome status.
func FinishSpan(tracingCollector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if failure, ok := core.AsFailure(err); ok {
		attrs[LogAttrFailureKind] = string(failure.Kind)
		attrs[LogAttrReason] = failure.Reason
	} else if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// handlerLogMessages are the messages logged for one kind of handler.
type handlerLogMessages struct {
	typeAttr  string
	started   string
	completed string
	rejected  string
	failed    string
}

var (
	commandLogMessages = handlerLogMessages{
		typeAttr:  LogAttrCommandType,
		started:   LogMsgCommandStarted,
		completed: LogMsgCommandCompleted,
		rejected:  LogMsgCommandRejected,
		failed:    LogMsgCommandFailed,
	}

	queryLogMessages = handlerLogMessages{
		typeAttr:  LogAttrQueryType,
		started:   LogMsgQueryStarted,
		completed: LogMsgQueryCompleted,
		rejected:  LogMsgQueryRejected,
		failed:    LogMsgQueryFailed,
	}
)

// LogCommandStart logs the beginning of command processing at debug level.
func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string) {
	logStart(ctx, logger, contextualLogger, commandLogMessages, commandType)
}

// LogCommandOutcome logs a finished command: info for success and business rejections,
// error for everything else.
func LogCommandOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	status string,
	duration time.Duration,
	err error,
) {
	logOutcome(ctx, logger, contextualLogger, commandLogMessages, commandType, status, duration, err)
}

// LogQueryStart logs the beginning of query processing at debug level.
func LogQueryStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string) {
	logStart(ctx, logger, contextualLogger, queryLogMessages, queryType)
}

// LogQueryOutcome logs a finished query, with the same levels as LogCommandOutcome.
func LogQueryOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	status string,
	duration time.Duration,
	err error,
) {
	logOutcome(ctx, logger, contextualLogger, queryLogMessages, queryType, status, duration, err)
}

func logStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msgs handlerLogMessages, handlerType string) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msgs.started, msgs.typeAttr, handlerType)
	} else if logger != nil {
		logger.Debug(msgs.started, msgs.typeAttr, handlerType)
	}
}

func logOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	msgs handlerLogMessages,
	handlerType string,
	status string,
	duration time.Duration,
	err error,
) {
	args := []any{
		msgs.typeAttr, handlerType,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	switch status {
	case StatusSuccess:
		info(ctx, logger, contextualLogger, msgs.completed, args)

	case StatusRejected:
		failure, _ := core.AsFailure(err)
		args = append(args, LogAttrFailureKind, string(failure.Kind), LogAttrReason, failure.Reason)
		info(ctx, logger, contextualLogger, msgs.rejected, args)

	default:
		args = append(args, LogAttrError, err.Error())
		if contextualLogger != nil {
			contextualLogger.ErrorContext(ctx, msgs.failed, args...)
		} else if logger != nil {
			logger.Error(msgs.failed, args...)
		}
	}
}

func info(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args []any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}
