package postgresengine

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger which receives the same messages as WithLogger,
// correlated with the active trace.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}

// WithLockTimeout sets how long an Append waits for the advisory locks of conflicting appends.
// An Append that times out fails with eventstore.ErrConcurrencyConflict.
func WithLockTimeout(timeout time.Duration) Option {
	return func(es *EventStore) error {
		if timeout <= 0 {
			return eventstore.ErrInvalidLockTimeout
		}

		es.lockTimeout = timeout

		return nil
	}
}

// WithLockKeyFields restricts the payload fields that are turned into advisory locks, see eventstore.LockKeysFor.
func WithLockKeyFields(fields ...string) Option {
	return func(es *EventStore) error {
		es.lockKeyFields = fields
		return nil
	}
}
