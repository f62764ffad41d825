package shell

import (
	"context"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// QueriesEvents defines the read side of the event store needed by query handlers and background jobs.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore defines the event store operations needed by command handlers.
// Both eventstore engines implement it.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// IdentityProvider resolves actor ids to their role and status.
// Unknown actors are returned as the zero core.Actor without an error,
// errors are reserved for infrastructure failures.
type IdentityProvider interface {
	Actor(ctx context.Context, actorID string) (core.Actor, error)
}

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the complete command workflow: retrieving events, unmarshaling, deciding, and appending.
// Handlers return HandlerResult containing business outcomes (idempotency) and execution metadata (retry info).
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueryResult represents the contract for all query results (projections).
// GetSequenceNumber returns the highest event sequence number included in the projection.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler defines the contract for components that process queries with pure projection logic.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
