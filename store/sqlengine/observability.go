package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/stanleyamo/library-management-system/store"
)

const (
	logMsgBuildQueryFailed    = "failed to build sql statement"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgBeginTxFailed       = "failed to begin database transaction"
	logMsgCommitFailed        = "failed to commit database transaction"
	logMsgRollbackFailed      = "failed to roll back database transaction"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "sqlengine operation: "
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgInvariantViolation  = "copy count invariant would be violated"
	logMsgMigrated            = "schema migrated"

	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrAction     = "action"
	logAttrOperation  = "operation"
	logAttrDurationMS = "duration_ms"
	logAttrDialect    = "dialect"

	metricOperationDuration    = "sqlengine_operation_duration_seconds"
	metricDatabaseErrors       = "sqlengine_database_errors_total"
	metricConcurrencyConflicts = "sqlengine_concurrency_conflicts_total"
	metricRowsReturned         = "sqlengine_rows_returned"

	spanNamePrefix       = "sqlengine."
	spanAttrOperation    = "operation"
	spanAttrDialect      = "dialect"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
	spanAttrRowsReturned = "rows_returned"

	statusSuccess             = "success"
	statusError               = "error"
	statusCanceled            = "canceled"
	statusNotFound            = "not_found"
	statusConcurrencyConflict = "concurrency_conflict"
	statusInvariantViolation  = "invariant_violation"

	errorTypeBuildQuery   = "build_query"
	errorTypeQuery        = "query"
	errorTypeScan         = "scan"
	errorTypeRowsAffected = "rows_affected"
	errorTypeTransaction  = "transaction"
	errorTypeUnknown      = "unknown"
)

// Store operation names used as the operation label and span name suffix.
const (
	opCatalogList         = "catalog.list"
	opCatalogGetByID      = "catalog.get_by_id"
	opCatalogCreate       = "catalog.create"
	opCatalogUpdate       = "catalog.update"
	opCatalogDelete       = "catalog.delete"
	opCatalogAdjust       = "catalog.adjust_available_copies"
	opLedgerList          = "ledger.list"
	opLedgerGetByID       = "ledger.get_by_id"
	opLedgerCreate        = "ledger.create"
	opLedgerMarkReturned  = "ledger.mark_returned"
	opLedgerExtendDueDate = "ledger.extend_due_date"
	opLedgerCountActive   = "ledger.count_active"
	opFinesList           = "fines.list"
	opFinesGetByID        = "fines.get_by_id"
	opFinesCreate         = "fines.create"
	opFinesMarkPaid       = "fines.mark_paid"
	opFinesMarkWaived     = "fines.mark_waived"
	opMigrate             = "migrate"
)

// observe wraps one store operation with a span, a duration metric, and outcome logging.
// rowCount, if not nil, is read after fn returns and recorded as the number of rows returned.
func (e *Engine) observe(ctx context.Context, operation string, rowCount *int, fn func(ctx context.Context) error) error {
	ctx, span := e.startSpan(ctx, operation)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	status := statusOf(err)
	e.recordDuration(ctx, duration, operation, status)

	endAttrs := map[string]string{spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration))}

	switch status {
	case statusSuccess:
		if rowCount != nil {
			e.recordValue(ctx, metricRowsReturned, float64(*rowCount), operation, status)
			endAttrs[spanAttrRowsReturned] = fmt.Sprintf("%d", *rowCount)
		}

	case statusConcurrencyConflict:
		e.incrementCounter(ctx, metricConcurrencyConflicts, map[string]string{spanAttrOperation: operation})
		e.logInfo(ctx, logMsgOperation+logMsgConcurrencyConflict, logAttrOperation, operation)

	case statusInvariantViolation:
		e.logInfo(ctx, logMsgOperation+logMsgInvariantViolation, logAttrOperation, operation)

	case statusError:
		errorType := errorTypeOf(err)
		endAttrs[spanAttrErrorType] = errorType
		e.incrementCounter(ctx, metricDatabaseErrors, map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		})
	}

	e.finishSpan(span, status, endAttrs)

	return err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, store.ErrNotFound):
		return statusNotFound
	case errors.Is(err, store.ErrConcurrencyConflict):
		return statusConcurrencyConflict
	case errors.Is(err, store.ErrInvariantViolation):
		return statusInvariantViolation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCanceled
	default:
		return statusError
	}
}

func errorTypeOf(err error) string {
	switch {
	case errors.Is(err, store.ErrBuildingQueryFailed):
		return errorTypeBuildQuery
	case errors.Is(err, store.ErrScanningDBRowFailed):
		return errorTypeScan
	case errors.Is(err, store.ErrRowsAffectedFailed):
		return errorTypeRowsAffected
	case errors.Is(err, store.ErrTransactionFailed):
		return errorTypeTransaction
	case errors.Is(err, store.ErrQueryingFailed):
		return errorTypeQuery
	default:
		return errorTypeUnknown
	}
}

func (e *Engine) startSpan(ctx context.Context, operation string) (context.Context, store.SpanContext) {
	if e.tracingCollector == nil {
		return ctx, nil
	}

	return e.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   e.dialect,
	})
}

func (e *Engine) finishSpan(span store.SpanContext, status string, attrs map[string]string) {
	if e.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	e.tracingCollector.FinishSpan(span, status, attrs)
}

func (e *Engine) recordDuration(ctx context.Context, duration time.Duration, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, "status": status}

	if contextual, ok := e.metricsCollector.(store.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	e.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (e *Engine) recordValue(ctx context.Context, metric string, value float64, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, "status": status}

	if contextual, ok := e.metricsCollector.(store.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	e.metricsCollector.RecordValue(metric, value, labels)
}

func (e *Engine) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextual, ok := e.metricsCollector.(store.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	e.metricsCollector.IncrementCounter(metric, labels)
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (e *Engine) logQueryWithDuration(ctx context.Context, query, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, query}

	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

func (e *Engine) logWarn(ctx context.Context, msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (e *Engine) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if e.logger != nil {
		e.logger.Error(msg, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
