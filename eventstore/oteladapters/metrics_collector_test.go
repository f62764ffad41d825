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

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/oteladapters"
)

func givenMetricsCollector(t *testing.T) (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return oteladapters.NewMetricsCollector(provider.Meter("cyclerental")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_RecordsSecondsIntoHistogram(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector(t)
	labels := map[string]string{eventstore.LabelOperation: eventstore.OperationQuery, eventstore.LabelStatus: eventstore.StatusSuccess}

	// act
	collector.RecordDuration(eventstore.MetricQueryDuration, 150*time.Millisecond, labels)

	// assert
	histogram, ok := findMetric(t, collect(t, reader), eventstore.MetricQueryDuration).Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	operation, found := histogram.DataPoints[0].Attributes.Value(attribute.Key(eventstore.LabelOperation))
	assert.True(t, found)
	assert.Equal(t, eventstore.OperationQuery, operation.AsString())
}

func Test_MetricsCollector_IncrementCounterContext_AddsOnePerCall(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector(t)
	labels := map[string]string{eventstore.LabelOperation: eventstore.OperationAppend}

	// act
	collector.IncrementCounterContext(context.Background(), eventstore.MetricConcurrencyConflicts, labels)
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)

	// assert
	sum, ok := findMetric(t, collect(t, reader), eventstore.MetricConcurrencyConflicts).Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector(t)

	// act
	collector.RecordValue(eventstore.MetricEventsQueried, 3, nil)
	collector.RecordValueContext(context.Background(), eventstore.MetricEventsQueried, 7, nil)

	// assert
	gauge, ok := findMetric(t, collect(t, reader), eventstore.MetricEventsQueried).Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 7.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_ConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector(t)
	var wg sync.WaitGroup

	// act
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter(eventstore.MetricDatabaseErrors, nil)
		}()
	}
	wg.Wait()

	// assert
	sum, ok := findMetric(t, collect(t, reader), eventstore.MetricDatabaseErrors).Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_WithoutMeter_DoesNothing(t *testing.T) {
	collector := oteladapters.NewMetricsCollector(nil)

	assert.NotPanics(t, func() {
		collector.RecordDuration(eventstore.MetricAppendDuration, time.Second, nil)
		collector.IncrementCounter(eventstore.MetricEventsAppended, nil)
		collector.RecordValue(eventstore.MetricEventsAppended, 1, nil)
	})
}
