package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell/observable"
	"github.com/AntonStoeckl/cyclerental-dcb-go/testutil/observability/testdoubles"
)

type testQuery struct{}

func (testQuery) QueryType() string { return "TestQuery" }

type testResult struct{ sequenceNumber uint }

func (r testResult) GetSequenceNumber() uint { return r.sequenceNumber }

type stubQueryHandler struct {
	result testResult
	err    error
}

func (h stubQueryHandler) Handle(_ context.Context, _ testQuery) (testResult, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewLoggerSpy()

	wrapper, err := observable.NewQueryWrapper[testQuery, testResult](
		stubQueryHandler{result: testResult{sequenceNumber: 42}},
		observable.WithQueryMetrics[testQuery, testResult](metrics),
		observable.WithQueryTracing[testQuery, testResult](tracing),
		observable.WithQueryContextualLogging[testQuery, testResult](logger),
	)
	require.NoError(t, err)

	// act
	result, handleErr := wrapper.Handle(context.Background(), testQuery{})

	// assert
	require.NoError(t, handleErr)
	assert.Equal(t, uint(42), result.GetSequenceNumber())

	labels := map[string]string{shell.LogAttrQueryType: "TestQuery", shell.LogAttrStatus: shell.StatusSuccess}
	assert.Equal(t, 1, metrics.CounterTotal(shell.QueryHandlerCallsMetric, labels))
	assert.True(t, metrics.HasDurationRecord(shell.QueryHandlerDurationMetric, labels))

	span, found := tracing.SpanRecordForName(shell.SpanNameQueryHandle)
	require.True(t, found)
	assert.Equal(t, shell.StatusSuccess, span.Status)

	assert.True(t, logger.HasRecord(testdoubles.LevelInfo, shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_Error(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	logger := testdoubles.NewLoggerSpy()
	queryErr := errors.New("querying events failed")

	wrapper, err := observable.NewQueryWrapper[testQuery, testResult](
		stubQueryHandler{err: queryErr},
		observable.WithQueryMetrics[testQuery, testResult](metrics),
		observable.WithQueryLogging[testQuery, testResult](logger),
	)
	require.NoError(t, err)

	// act
	_, handleErr := wrapper.Handle(context.Background(), testQuery{})

	// assert
	assert.ErrorIs(t, handleErr, queryErr)
	assert.Equal(t, 1, metrics.CounterTotal(shell.QueryHandlerCallsMetric, map[string]string{shell.LogAttrStatus: shell.StatusError}))
	assert.True(t, logger.HasRecord(testdoubles.LevelError, shell.LogMsgQueryFailed))
}
