package promadapters_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/promadapters"
)

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{eventstore.LabelOperation: eventstore.OperationAppend}

	// act
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)
	collector.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)

	// assert
	expected := `
# HELP eventstore_concurrency_conflicts_total cyclerental metric eventstore_concurrency_conflicts_total
# TYPE eventstore_concurrency_conflicts_total counter
eventstore_concurrency_conflicts_total{operation="append"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), eventstore.MetricConcurrencyConflicts))
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry, promadapters.WithBuckets(0.3, 1))
	labels := map[string]string{eventstore.LabelOperation: eventstore.OperationQuery, eventstore.LabelStatus: eventstore.StatusSuccess}

	// act
	collector.RecordDuration(eventstore.MetricQueryDuration, 250*time.Millisecond, labels)
	collector.RecordDuration(eventstore.MetricQueryDuration, 500*time.Millisecond, labels)

	// assert
	count, err := testutil.GatherAndCount(registry, eventstore.MetricQueryDuration)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP eventstore_query_duration_seconds cyclerental metric eventstore_query_duration_seconds
# TYPE eventstore_query_duration_seconds histogram
eventstore_query_duration_seconds_bucket{operation="query",status="success",le="0.3"} 1
eventstore_query_duration_seconds_bucket{operation="query",status="success",le="1"} 2
eventstore_query_duration_seconds_bucket{operation="query",status="success",le="+Inf"} 2
eventstore_query_duration_seconds_sum{operation="query",status="success"} 0.75
eventstore_query_duration_seconds_count{operation="query",status="success"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), eventstore.MetricQueryDuration))
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.RecordValue(eventstore.MetricEventsQueried, 3, map[string]string{eventstore.LabelOperation: eventstore.OperationQuery})
	collector.RecordValue(eventstore.MetricEventsQueried, 5, map[string]string{eventstore.LabelOperation: eventstore.OperationQuery})

	// assert
	expected := `
# HELP eventstore_events_queried_total cyclerental metric eventstore_events_queried_total
# TYPE eventstore_events_queried_total gauge
eventstore_events_queried_total{operation="query"} 5
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), eventstore.MetricEventsQueried))
}

func Test_MetricsCollector_DropsObservationsWithOtherLabelNames(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	collector.IncrementCounter(eventstore.MetricDatabaseErrors, map[string]string{eventstore.LabelOperation: eventstore.OperationQuery})

	// act
	assert.NotPanics(t, func() {
		collector.IncrementCounter(eventstore.MetricDatabaseErrors, map[string]string{eventstore.LabelErrorType: "scan"})
	})

	// assert
	expected := `
# HELP eventstore_database_errors_total cyclerental metric eventstore_database_errors_total
# TYPE eventstore_database_errors_total counter
eventstore_database_errors_total{operation="query"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), eventstore.MetricDatabaseErrors))
}

func Test_MetricsCollector_SharesRegisteredMetricsAcrossCollectors(t *testing.T) {
	// arrange
	registry := prometheus.NewRegistry()
	first := promadapters.NewMetricsCollector(registry)
	second := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{eventstore.LabelOperation: eventstore.OperationAppend}

	// act
	first.IncrementCounter(eventstore.MetricEventsAppended, labels)
	second.IncrementCounter(eventstore.MetricEventsAppended, labels)

	// assert
	expected := `
# HELP eventstore_events_appended_total cyclerental metric eventstore_events_appended_total
# TYPE eventstore_events_appended_total counter
eventstore_events_appended_total{operation="append"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), eventstore.MetricEventsAppended))
}
