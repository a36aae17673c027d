package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stanleyamo/library-management-system/store/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "no metric named %q was collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "catalog.list", "status": "success"}

	// act
	collector.RecordDuration("sqlengine_operation_duration_seconds", 250*time.Millisecond, labels)
	collector.RecordDurationContext(context.Background(), "sqlengine_operation_duration_seconds", 750*time.Millisecond, labels)

	// assert
	m := collectMetric(t, reader, "sqlengine_operation_duration_seconds")
	assert.Equal(t, "s", m.Unit)
	assert.Equal(t, "sqlengine operation duration", m.Description)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 1.0, histogram.DataPoints[0].Sum, 0.0001)

	status, found := histogram.DataPoints[0].Attributes.Value(attribute.Key("status"))
	assert.True(t, found)
	assert.Equal(t, "success", status.AsString())
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "ledger.mark_returned"}

	// act
	collector.IncrementCounter("sqlengine_concurrency_conflicts_total", labels)
	collector.IncrementCounter("sqlengine_concurrency_conflicts_total", labels)
	collector.IncrementCounterContext(context.Background(), "sqlengine_concurrency_conflicts_total", labels)

	// assert
	m := collectMetric(t, reader, "sqlengine_concurrency_conflicts_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordValue("sqlengine_rows_returned", 3, map[string]string{"operation": "catalog.list"})
	collector.RecordValueContext(context.Background(), "sqlengine_rows_returned", 7, map[string]string{"operation": "catalog.list"})

	// assert
	m := collectMetric(t, reader, "sqlengine_rows_returned")
	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_SeparatesLabelSets(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.IncrementCounter("circulation_commands_total", map[string]string{"status": "success"})
	collector.IncrementCounter("circulation_commands_total", map[string]string{"status": "rejected"})
	collector.IncrementCounter("circulation_commands_total", nil)

	// assert
	m := collectMetric(t, reader, "circulation_commands_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 3)
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	var wg sync.WaitGroup

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("sqlengine_database_errors_total", map[string]string{"error_type": "query"})
			collector.RecordDuration("sqlengine_operation_duration_seconds", time.Millisecond, nil)
		}()
	}

	wg.Wait()

	// assert
	m := collectMetric(t, reader, "sqlengine_database_errors_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}
