package observable_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/circulation/shell/observable"
	"github.com/stanleyamo/library-management-system/core"
	"github.com/stanleyamo/library-management-system/store"
	. "github.com/stanleyamo/library-management-system/testutil/observability/testdoubles" //nolint:revive
)

type testCommand struct{ Value string }

func (testCommand) CommandType() string { return "TestCommand" }

type commandHandlerStub struct {
	mu     sync.Mutex
	calls  []testCommand
	record string
	result shell.HandlerResult
	err    error
}

func (h *commandHandlerStub) Handle(_ context.Context, command testCommand) (string, shell.HandlerResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, command)

	return h.record, h.result, h.err
}

func givenCommandWrapper(
	t *testing.T,
	handler *commandHandlerStub,
) (*observable.CommandWrapper[testCommand, string], *MetricsCollectorSpy, *TracingCollectorSpy, *ContextualLoggerSpy) {
	t.Helper()

	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewCommandWrapper[testCommand, string](
		handler,
		observable.WithCommandMetrics[testCommand, string](metricsCollector),
		observable.WithCommandTracing[testCommand, string](tracingCollector),
		observable.WithCommandContextualLogging[testCommand, string](contextualLogger),
	)
	require.NoError(t, err)

	return wrapper, metricsCollector, tracingCollector, contextualLogger
}

func Test_CommandWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := &commandHandlerStub{record: "written", result: shell.HandlerResult{RetryAttempts: 1, LastErrorType: shell.ErrorTypeNone}}
	wrapper, metrics, tracing, logger := givenCommandWrapper(t, handler)

	// act
	record, result, err := wrapper.Handle(context.Background(), testCommand{Value: "x"})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "written", record)
	assert.Equal(t, handler.result, result)
	assert.Equal(t, []testCommand{{Value: "x"}}, handler.calls)

	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandCallsMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, metrics.HasDurationRecordForMetric(shell.CommandDurationMetric).
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.Zero(t, metrics.CountCounterRecordsForMetric(shell.CommandRetriesMetric))

	span, found := tracing.FindSpan(shell.SpanNameCommandHandle)
	require.True(t, found)
	assert.Equal(t, "TestCommand", span.StartAttributes[shell.LogAttrCommandType])
	assert.Equal(t, shell.StatusSuccess, span.Status)

	assert.True(t, logger.HasDebugLog(shell.LogMsgCommandStarted))
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_BusinessRejection(t *testing.T) {
	// arrange
	failure := core.NewFailure(core.KindNoCopiesAvailable, "all copies are on loan")
	handler := &commandHandlerStub{result: shell.HandlerResult{Rejected: true, RetryAttempts: 1}, err: failure}
	wrapper, metrics, tracing, logger := givenCommandWrapper(t, handler)

	// act
	_, result, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
	assert.True(t, result.Rejected)

	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandCallsMetric).
		WithStatus(shell.StatusRejected).
		Assert())
	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandRejectedMetric).
		WithLabel(shell.LogAttrFailureKind, string(core.KindNoCopiesAvailable)).
		Assert())

	span, found := tracing.FindSpan(shell.SpanNameCommandHandle)
	require.True(t, found)
	assert.Equal(t, shell.StatusRejected, span.Status)
	assert.Equal(t, "all copies are on loan", span.EndAttributes[shell.LogAttrReason])

	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandRejected))
	assert.False(t, logger.HasErrorLog(shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_Fault(t *testing.T) {
	// arrange
	handler := &commandHandlerStub{err: errors.Join(store.ErrQueryingFailed, errors.New("connection refused"))}
	wrapper, metrics, tracing, logger := givenCommandWrapper(t, handler)

	// act
	_, _, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, store.ErrQueryingFailed)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandCallsMetric).WithStatus(shell.StatusError).Assert())

	span, found := tracing.FindSpan(shell.SpanNameCommandHandle)
	require.True(t, found)
	assert.Equal(t, shell.StatusError, span.Status)
	assert.Contains(t, span.EndAttributes[shell.LogAttrError], "connection refused")

	assert.True(t, logger.HasErrorLog(shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_ErrorStatuses(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "canceled", err: context.Canceled, expected: shell.StatusCanceled},
		{name: "timeout", err: context.DeadlineExceeded, expected: shell.StatusTimeout},
		{name: "concurrency conflict", err: store.ErrConcurrencyConflict, expected: shell.StatusConcurrencyConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapper, metrics, _, logger := givenCommandWrapper(t, &commandHandlerStub{err: tc.err})

			_, _, err := wrapper.Handle(context.Background(), testCommand{})

			assert.ErrorIs(t, err, tc.err)
			assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandCallsMetric).WithStatus(tc.expected).Assert())
			assert.True(t, logger.HasErrorLog(shell.LogMsgCommandFailed))
		})
	}
}

func Test_CommandWrapper_Handle_RecordsRetryMetadata(t *testing.T) {
	// arrange
	handler := &commandHandlerStub{
		err: store.ErrConcurrencyConflict,
		result: shell.HandlerResult{
			RetryAttempts:    6,
			TotalRetryDelay:  300 * time.Millisecond,
			LastErrorType:    shell.ErrorTypeConcurrencyConflict,
			RetriesExhausted: true,
		},
	}
	wrapper, metrics, _, _ := givenCommandWrapper(t, handler)

	// act
	_, _, _ = wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandRetriesMetric).
		WithLabel(shell.LogAttrAttemptNumber, "5").
		WithErrorType(shell.ErrorTypeConcurrencyConflict).
		Assert())
	assert.True(t, metrics.HasDurationRecordForMetric(shell.CommandRetryDelayMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		Assert())
	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandMaxRetriesReachedMetric).Assert())
}

func Test_CommandWrapper_Handle_WithoutObservability(t *testing.T) {
	// arrange
	wrapper, err := observable.NewCommandWrapper[testCommand, string](&commandHandlerStub{record: "ok"})
	require.NoError(t, err)

	// act
	record, _, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "ok", record)
}

func Test_CommandWrapper_Handle_PlainLogger(t *testing.T) {
	// arrange
	handlerSpy := NewLogHandlerSpy(false)
	wrapper, err := observable.NewCommandWrapper[testCommand, string](
		&commandHandlerStub{err: core.NewFailure(core.KindAlreadyPaid, "fine already paid")},
		observable.WithCommandLogging[testCommand, string](slogLogger(handlerSpy)),
	)
	require.NoError(t, err)

	// act
	_, _, _ = wrapper.Handle(context.Background(), testCommand{})

	// assert
	reason, found := handlerSpy.AttrValue(shell.LogMsgCommandRejected, shell.LogAttrReason)
	assert.True(t, found)
	assert.Equal(t, "fine already paid", reason.String())
}
