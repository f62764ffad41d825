package zapadapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/zapadapters"
)

func givenObservedLogger(t *testing.T, level zapcore.Level) (*zapadapters.Logger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(level)

	return zapadapters.NewLogger(zap.New(core)), logs
}

func Test_Logger_WritesKeyValuePairsAsFields(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t, zapcore.DebugLevel)

	// act
	logger.Debug("eventstore sql: executed query", "duration_ms", 1.5)
	logger.Info("eventstore operation: events appended", "event_count", 2)
	logger.Warn("eventstore: rollback failed", "error", "boom")
	logger.Error("eventstore: append failed", "error", "boom")

	// assert
	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, int64(2), entries[1].ContextMap()["event_count"])
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func Test_Logger_RespectsLevel(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t, zapcore.InfoLevel)

	// act
	logger.Debug("suppressed")
	logger.DebugContext(context.Background(), "suppressed")

	// assert
	assert.Zero(t, logs.Len())
}

func Test_Logger_ContextMethods_AddTraceCorrelation(t *testing.T) {
	// setup
	provider := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("cyclerental").Start(context.Background(), "command.issue_checkout_token")
	defer span.End()

	// arrange
	logger, logs := givenObservedLogger(t, zapcore.DebugLevel)

	// act
	logger.InfoContext(ctx, "eventstore operation: query completed", "event_count", 0)

	// assert
	entries := logs.FilterMessage("eventstore operation: query completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func Test_Logger_ContextMethods_WithoutSpan(t *testing.T) {
	// arrange
	logger, logs := givenObservedLogger(t, zapcore.DebugLevel)

	// act
	logger.WarnContext(context.Background(), "no span", "cycle_id", "C1")

	// assert
	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "trace_id")
	assert.Equal(t, "C1", fields["cycle_id"])
}
