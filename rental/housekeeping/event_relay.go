package housekeeping

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

const (
	defaultRelayInterval = time.Second
	defaultBatchSize     = 500
	defaultSettleDelay   = 2 * time.Second

	headerEventType     = "event_type"
	headerMessageID     = "message_id"
	headerCorrelationID = "correlation_id"

	logMsgEventsRelayed   = "housekeeping: events relayed"
	logMsgRelayError      = "housekeeping: relaying events failed"
	logAttrEventCount     = "event_count"
	logAttrSequenceNumber = "sequence_number"
)

// MessageWriter is the part of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// RelayedMessage is the value of each published Kafka message.
type RelayedMessage struct {
	EventType      string           `json:"eventType"`
	SequenceNumber uint             `json:"sequenceNumber"`
	OccurredAt     time.Time        `json:"occurredAt"`
	MessageID      string           `json:"messageId"`
	CausationID    string           `json:"causationId"`
	CorrelationID  string           `json:"correlationId"`
	Payload        core.DomainEvent `json:"payload"`
}

// EventRelay publishes the cycle lifecycle events in sequence order, keyed by CycleID.
// RelayOnce must not be called concurrently, Run is the only caller in production.
type EventRelay struct {
	store       shell.QueriesEvents
	writer      MessageWriter
	cursor      Cursor
	interval    time.Duration
	batchSize   int
	settleDelay time.Duration
	now         func() time.Time
	logger      shell.Logger
	firstSeen   map[eventstore.MaxSequenceNumberUint]time.Time
}

// RelayOption configures an EventRelay.
type RelayOption func(*EventRelay) error

// WithRelayInterval sets how often the relay polls the event store.
func WithRelayInterval(interval time.Duration) RelayOption {
	return func(r *EventRelay) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}

		r.interval = interval

		return nil
	}
}

// WithBatchSize limits how many events are written to Kafka at once.
func WithBatchSize(size int) RelayOption {
	return func(r *EventRelay) error {
		r.batchSize = max(size, 1)
		return nil
	}
}

// WithSettleDelay sets how long the relay must have seen an event before it is relayed.
// Appends of concurrent transactions may become visible out of sequence order,
// the delay gives them time to commit before the cursor moves past their sequence numbers.
// The clock starts when the relay first reads the event, after its commit, so retried commands
// with an old OccurredAt still wait. An append transaction that stays open longer than the delay
// can still be passed by the cursor and is then not relayed.
func WithSettleDelay(delay time.Duration) RelayOption {
	return func(r *EventRelay) error {
		r.settleDelay = max(delay, 0)
		return nil
	}
}

// WithRelayClock replaces time.Now, for tests.
func WithRelayClock(now func() time.Time) RelayOption {
	return func(r *EventRelay) error {
		r.now = now
		return nil
	}
}

// WithRelayLogger sets a logger for relay results and failures.
func WithRelayLogger(logger shell.Logger) RelayOption {
	return func(r *EventRelay) error {
		r.logger = logger
		return nil
	}
}

func NewEventRelay(store shell.QueriesEvents, writer MessageWriter, cursor Cursor, opts ...RelayOption) (*EventRelay, error) {
	r := &EventRelay{
		store:       store,
		writer:      writer,
		cursor:      cursor,
		interval:    defaultRelayInterval,
		batchSize:   defaultBatchSize,
		settleDelay: defaultSettleDelay,
		now:         time.Now,
		firstSeen:   make(map[eventstore.MaxSequenceNumberUint]time.Time),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RelayOnce publishes the next batch of settled events after the cursor and returns how many were published.
// An event is settled once the relay has seen it for the settle delay.
// The cursor only moves after Kafka accepted the whole batch, a failed batch is published again by the next call.
func (r *EventRelay) RelayOnce(ctx context.Context) (int, error) {
	position, err := r.cursor.Load(ctx)
	if err != nil {
		return 0, err
	}

	storableEvents, _, err := r.store.Query(
		eventstore.WithEventualConsistency(ctx),
		BuildRelayedEventFilter().WithSequenceNumberHigherThan(position),
	)
	if err != nil {
		return 0, err
	}

	now := r.now()
	settledBefore := now.Add(-r.settleDelay)
	candidates := storableEvents[:min(len(storableEvents), r.batchSize)]
	batch := make(eventstore.StorableEvents, 0, len(candidates))

	for _, storableEvent := range candidates {
		if _, seen := r.firstSeen[storableEvent.SequenceNumber]; !seen {
			r.firstSeen[storableEvent.SequenceNumber] = now
		}
	}

	for _, storableEvent := range candidates {
		if r.firstSeen[storableEvent.SequenceNumber].After(settledBefore) {
			break
		}

		batch = append(batch, storableEvent)
	}

	if len(batch) == 0 {
		return 0, nil
	}

	envelopes, err := shell.EventEnvelopesFrom(batch)
	if err != nil {
		return 0, err
	}

	messages, err := toMessages(envelopes)
	if err != nil {
		return 0, err
	}

	if err = r.writer.WriteMessages(ctx, messages...); err != nil {
		return 0, err
	}

	last := envelopes[len(envelopes)-1].SequenceNumber
	if err = r.cursor.Save(ctx, last); err != nil {
		return 0, err
	}

	for sequenceNumber := range r.firstSeen {
		if sequenceNumber <= last {
			delete(r.firstSeen, sequenceNumber)
		}
	}

	if r.logger != nil {
		r.logger.Info(logMsgEventsRelayed, logAttrEventCount, len(messages), logAttrSequenceNumber, last)
	}

	return len(messages), nil
}

// Run relays on every tick until ctx is canceled. Failed batches are logged and retried on the next tick.
func (r *EventRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && r.logger != nil && ctx.Err() == nil {
				r.logger.Warn(logMsgRelayError, logAttrError, err.Error())
			}
		}
	}
}

func toMessages(envelopes shell.EventEnvelopes) ([]kafka.Message, error) {
	messages := make([]kafka.Message, 0, len(envelopes))

	for _, envelope := range envelopes {
		event := envelope.DomainEvent

		value, err := jsoniter.ConfigFastest.Marshal(RelayedMessage{
			EventType:      event.IsEventType(),
			SequenceNumber: envelope.SequenceNumber,
			OccurredAt:     event.HasOccurredAt(),
			MessageID:      envelope.EventMetadata.MessageID,
			CausationID:    envelope.EventMetadata.CausationID,
			CorrelationID:  envelope.EventMetadata.CorrelationID,
			Payload:        event,
		})
		if err != nil {
			return nil, err
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(cycleIDOf(event)),
			Value: value,
			Headers: []kafka.Header{
				{Key: headerEventType, Value: []byte(event.IsEventType())},
				{Key: headerMessageID, Value: []byte(envelope.EventMetadata.MessageID)},
				{Key: headerCorrelationID, Value: []byte(envelope.EventMetadata.CorrelationID)},
			},
			Time: event.HasOccurredAt(),
		})
	}

	return messages, nil
}

func cycleIDOf(event core.DomainEvent) core.CycleIDString {
	switch e := event.(type) {
	case core.CycleRegistered:
		return e.CycleID
	case core.CycleStatusChanged:
		return e.CycleID
	case core.CycleFlaggedForMaintenance:
		return e.CycleID
	case core.CycleCheckedOut:
		return e.CycleID
	case core.CycleCheckedIn:
		return e.CycleID
	case core.CycleRated:
		return e.CycleID
	default:
		return ""
	}
}

// BuildRelayedEventFilter matches the cycle lifecycle events the maintenance workflow consumes.
func BuildRelayedEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CycleRegisteredEventType,
			core.CycleStatusChangedEventType,
			core.CycleFlaggedForMaintenanceEventType,
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
			core.CycleRatedEventType,
		).
		Finalize()
}
