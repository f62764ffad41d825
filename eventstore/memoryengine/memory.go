package memoryengine

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

const (
	defaultLockTimeout = 2 * time.Second

	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgEventsPruned        = "eventstore operation: events pruned"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
	logAttrReason             = "reason"
	reasonLockTimeout         = "lock_timeout"
	reasonSequenceMismatch    = "sequence_mismatch"
)

var ErrLockTimeout = errors.New("timed out waiting for the append locks")

// EventStore keeps all events in memory. Its zero value is not usable, create it with NewEventStore.
type EventStore struct {
	mu             sync.RWMutex
	events         []storedEvent
	lastSequence   eventstore.MaxSequenceNumberUint
	locks          *keyedLocks
	lockTimeout    time.Duration
	lockKeyFields  []string
	logger         eventstore.Logger
	metrics        eventstore.MetricsCollector
	appendObserver func(stage string)
}

type storedEvent struct {
	event  eventstore.StorableEvent
	fields map[string]string
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger sets a logger that receives operation logs at info level.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metrics = collector
		return nil
	}
}

// WithLockTimeout sets how long an Append waits for conflicting appends.
func WithLockTimeout(timeout time.Duration) Option {
	return func(es *EventStore) error {
		if timeout <= 0 {
			return eventstore.ErrInvalidLockTimeout
		}

		es.lockTimeout = timeout

		return nil
	}
}

// WithLockKeyFields restricts the payload fields that are turned into locks, see eventstore.LockKeysFor.
func WithLockKeyFields(fields ...string) Option {
	return func(es *EventStore) error {
		es.lockKeyFields = fields
		return nil
	}
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		locks:       newKeyedLocks(),
		lockTimeout: defaultLockTimeout,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns all events matching the filter in sequence order and the max sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	start := time.Now()

	es.mu.RLock()
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if stored.event.SequenceNumber <= filter.SequenceNumberHigherThan() || !matches(filter, stored) {
			continue
		}

		eventStream = append(eventStream, stored.event)
		maxSequenceNumber = stored.event.SequenceNumber
	}
	es.mu.RUnlock()

	es.logInfo(logMsgQueryCompleted, logAttrEventCount, len(eventStream))
	es.recordSuccess(ctx, eventstore.OperationQuery, eventstore.MetricQueryDuration, eventstore.MetricEventsQueried, len(eventStream), time.Since(start))

	return eventStream, maxSequenceNumber, nil
}

// Append appends all events atomically if the max sequence number of the events matching the filter
// is still expectedMaxSequenceNumber, otherwise it fails with eventstore.ErrConcurrencyConflict.
//
// Appends holding conflicting lock keys run one after another, others run in parallel.
// Waiting longer than the lock timeout also fails with eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)
	start := time.Now()

	toStore := make([]storedEvent, 0, len(allEvents))
	for _, e := range allEvents {
		fields, err := stringFields(e.PayloadJSON)
		if err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		toStore = append(toStore, storedEvent{event: e, fields: fields})
	}

	lockKeys, lockKeysErr := eventstore.LockKeysFor(filter, allEvents, es.lockKeyFields...)
	if lockKeysErr != nil {
		return lockKeysErr
	}

	lockCtx, cancel := context.WithTimeout(ctx, es.lockTimeout)
	defer cancel()

	release, acquireErr := es.locks.acquire(lockCtx, lockKeys)
	if acquireErr != nil {
		if ctx.Err() != nil {
			return errors.Join(eventstore.ErrAcquiringLocksFailed, ctx.Err())
		}

		es.logInfo(logMsgConcurrencyConflict, logAttrReason, reasonLockTimeout)
		es.recordConflict(ctx)

		return errors.Join(eventstore.ErrConcurrencyConflict, ErrLockTimeout)
	}
	defer release()

	es.observe("locked")

	es.mu.RLock()
	currentMaxSequenceNumber := es.maxSequenceNumberFor(filter)
	es.mu.RUnlock()

	if currentMaxSequenceNumber != expectedMaxSequenceNumber {
		es.logInfo(
			logMsgConcurrencyConflict,
			logAttrReason, reasonSequenceMismatch,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, currentMaxSequenceNumber,
		)
		es.recordConflict(ctx)

		return eventstore.ErrConcurrencyConflict
	}

	es.mu.Lock()
	for _, stored := range toStore {
		es.lastSequence++
		stored.event = stored.event.WithSequenceNumber(es.lastSequence)
		es.events = append(es.events, stored)
	}
	es.mu.Unlock()

	es.logInfo(logMsgEventsAppended, logAttrEventCount, len(allEvents))
	es.recordSuccess(ctx, eventstore.OperationAppend, eventstore.MetricAppendDuration, eventstore.MetricEventsAppended, len(allEvents), time.Since(start))

	return nil
}

// Prune deletes all events matching the filter which occurred before occurredBefore and returns how many were deleted.
func (es *EventStore) Prune(ctx context.Context, filter eventstore.Filter, occurredBefore time.Time) (int64, error) {
	if filter.IsEmpty() {
		return 0, eventstore.ErrPruneWithEmptyFilterSupplied
	}

	if err := ctx.Err(); err != nil {
		return 0, errors.Join(eventstore.ErrPruningEventsFailed, err)
	}

	start := time.Now()

	es.mu.Lock()
	before := len(es.events)
	es.events = slices.DeleteFunc(es.events, func(stored storedEvent) bool {
		return stored.event.OccurredAt.Before(occurredBefore) && matches(filter, stored)
	})
	pruned := before - len(es.events)
	es.mu.Unlock()

	es.logInfo(logMsgEventsPruned, logAttrEventCount, pruned)
	es.recordSuccess(ctx, eventstore.OperationPrune, eventstore.MetricAppendDuration, eventstore.MetricEventsPruned, pruned, time.Since(start))

	return int64(pruned), nil
}

// maxSequenceNumberFor must be called with es.mu held.
func (es *EventStore) maxSequenceNumberFor(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	for i := len(es.events) - 1; i >= 0; i-- {
		if matches(filter, es.events[i]) {
			return es.events[i].event.SequenceNumber
		}
	}

	return 0
}

// matches mirrors the SQL of the PostgreSQL engine: items are OR-ed, event types within an item are OR-ed,
// predicates are AND-ed or OR-ed, and an item without event types and predicates matches everything.
func matches(filter eventstore.Filter, stored storedEvent) bool {
	if filter.IsEmpty() {
		return true
	}

	for _, item := range filter.Items() {
		if matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), stored.event.EventType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	matchesPredicate := func(predicate eventstore.FilterPredicate) bool {
		val, ok := stored.fields[predicate.Key()]
		return ok && val == predicate.Val()
	}

	if item.AllPredicatesMustMatch() {
		for _, predicate := range item.Predicates() {
			if !matchesPredicate(predicate) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(item.Predicates(), matchesPredicate)
}

func stringFields(payloadJSON []byte) (map[string]string, error) {
	raw := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &raw); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(raw))
	for key, val := range raw {
		if str, ok := val.(string); ok {
			fields[key] = str
		}
	}

	return fields, nil
}

func (es *EventStore) logInfo(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func (es *EventStore) recordSuccess(
	ctx context.Context,
	operation string,
	durationMetric string,
	countMetric string,
	count int,
	duration time.Duration,
) {

	if es.metrics == nil {
		return
	}

	labels := map[string]string{eventstore.LabelOperation: operation, eventstore.LabelStatus: eventstore.StatusSuccess}

	if contextual, ok := es.metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, durationMetric, duration, labels)
		contextual.RecordValueContext(ctx, countMetric, float64(count), labels)

		return
	}

	es.metrics.RecordDuration(durationMetric, duration, labels)
	es.metrics.RecordValue(countMetric, float64(count), labels)
}

func (es *EventStore) recordConflict(ctx context.Context) {
	if es.metrics == nil {
		return
	}

	labels := map[string]string{eventstore.LabelOperation: eventstore.OperationAppend}

	if contextual, ok := es.metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, eventstore.MetricConcurrencyConflicts, labels)
		return
	}

	es.metrics.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)
}

func (es *EventStore) observe(stage string) {
	if es.appendObserver != nil {
		es.appendObserver(stage)
	}
}
