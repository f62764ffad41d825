package postgresengine

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

const (
	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
)

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (es *EventStore) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (es *EventStore) logOperation(ctx context.Context, action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical failures at warn level.
func (es *EventStore) logWarn(ctx context.Context, message string, err error) {
	if es.logger != nil {
		es.logger.Warn(message, logAttrError, err.Error())
	}

	if es.contextualLogger != nil {
		es.contextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
	}
}

// logError logs failures at error level.
func (es *EventStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if es.logger != nil {
		es.logger.Error(message, allArgs...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (es *EventStore) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, labels)
}

func (es *EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

func (es *EventStore) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if contextual, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

func (es *EventStore) startSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventstore.SpanContext) {

	if es.tracingCollector == nil {
		return ctx, nil
	}

	return es.tracingCollector.StartSpan(ctx, name, attrs)
}

func (es *EventStore) finishSpan(span eventstore.SpanContext, status string, attrs map[string]string) {
	if es.tracingCollector == nil || span == nil {
		return
	}

	es.tracingCollector.FinishSpan(span, status, attrs)
}

// queryObserver bundles the metrics and tracing of one Query.
type queryObserver struct {
	es   *EventStore
	ctx  context.Context
	span eventstore.SpanContext
}

func (es *EventStore) startQueryObservation(ctx context.Context) (*queryObserver, context.Context) {
	ctx, span := es.startSpan(ctx, eventstore.SpanNameQuery, map[string]string{spanAttrOperation: eventstore.OperationQuery})

	return &queryObserver{es: es, ctx: ctx, span: span}, ctx
}

func (o *queryObserver) finishSuccess(
	eventStream eventstore.StorableEvents,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	duration time.Duration,
) {

	labels := map[string]string{
		eventstore.LabelOperation: eventstore.OperationQuery,
		eventstore.LabelStatus:    eventstore.StatusSuccess,
	}

	o.es.recordDuration(o.ctx, eventstore.MetricQueryDuration, duration, labels)
	o.es.recordValue(o.ctx, eventstore.MetricEventsQueried, float64(len(eventStream)), labels)

	o.es.finishSpan(o.span, eventstore.StatusSuccess, map[string]string{
		spanAttrEventCount:  strconv.Itoa(len(eventStream)),
		spanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		spanAttrDurationMS:  strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64),
	})
}

func (o *queryObserver) finishError(errorType string, duration time.Duration) {
	o.es.recordDuration(o.ctx, eventstore.MetricQueryDuration, duration, map[string]string{
		eventstore.LabelOperation: eventstore.OperationQuery,
		eventstore.LabelStatus:    eventstore.StatusError,
	})

	o.es.incrementCounter(o.ctx, eventstore.MetricDatabaseErrors, map[string]string{
		eventstore.LabelOperation: eventstore.OperationQuery,
		eventstore.LabelErrorType: errorType,
	})

	o.es.finishSpan(o.span, eventstore.StatusError, map[string]string{spanAttrErrorType: errorType})
}

// writeObserver bundles the metrics and tracing of one Append or Prune.
type writeObserver struct {
	es             *EventStore
	ctx            context.Context
	span           eventstore.SpanContext
	operation      string
	durationMetric string
	countMetric    string
}

func (es *EventStore) startAppendObservation(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*writeObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:   eventstore.OperationAppend,
		spanAttrEventCount:  strconv.Itoa(len(events)),
		spanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	ctx, span := es.startSpan(ctx, eventstore.SpanNameAppend, attrs)

	return &writeObserver{
		es:             es,
		ctx:            ctx,
		span:           span,
		operation:      eventstore.OperationAppend,
		durationMetric: eventstore.MetricAppendDuration,
		countMetric:    eventstore.MetricEventsAppended,
	}, ctx
}

func (es *EventStore) startPruneObservation(ctx context.Context) (*writeObserver, context.Context) {
	ctx, span := es.startSpan(ctx, eventstore.SpanNamePrune, map[string]string{spanAttrOperation: eventstore.OperationPrune})

	return &writeObserver{
		es:             es,
		ctx:            ctx,
		span:           span,
		operation:      eventstore.OperationPrune,
		durationMetric: eventstore.MetricAppendDuration,
		countMetric:    eventstore.MetricEventsPruned,
	}, ctx
}

func (o *writeObserver) finishSuccess(eventCount int, rowsAffected int64, duration time.Duration) {
	labels := map[string]string{
		eventstore.LabelOperation: o.operation,
		eventstore.LabelStatus:    eventstore.StatusSuccess,
	}

	o.es.recordDuration(o.ctx, o.durationMetric, duration, labels)
	o.es.recordValue(o.ctx, o.countMetric, float64(eventCount), labels)

	o.es.finishSpan(o.span, eventstore.StatusSuccess, map[string]string{
		spanAttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
		spanAttrDurationMS:   strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64),
	})
}

func (o *writeObserver) finishError(errorType string, duration time.Duration) {
	o.es.recordDuration(o.ctx, o.durationMetric, duration, map[string]string{
		eventstore.LabelOperation: o.operation,
		eventstore.LabelStatus:    eventstore.StatusError,
	})

	if errorType != errorTypeConcurrencyConflict {
		o.es.incrementCounter(o.ctx, eventstore.MetricDatabaseErrors, map[string]string{
			eventstore.LabelOperation: o.operation,
			eventstore.LabelErrorType: errorType,
		})
	}

	o.es.finishSpan(o.span, eventstore.StatusError, map[string]string{spanAttrErrorType: errorType})
}

func (o *writeObserver) recordConcurrencyConflict() {
	o.es.incrementCounter(o.ctx, eventstore.MetricConcurrencyConflicts, map[string]string{
		eventstore.LabelOperation: o.operation,
	})
}
