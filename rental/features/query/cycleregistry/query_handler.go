package cycleregistry

import (
	"context"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
)

// QueryHandler orchestrates the complete query processing workflow.
// It handles event store interactions and delegates projection logic to the pure core functions.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle executes the complete query processing workflow: Query -> Project.
// Unknown cycles fail with core.ErrCycleNotRegistered.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Cycle, error) {
	filter := BuildEventFilter(query.CycleID)

	// Pure query handlers tolerate slightly stale data, so they may read from a replica
	ctx = eventstore.WithEventualConsistency(ctx)

	// Query phase
	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Cycle{}, err
	}

	// Unmarshal phase
	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Cycle{}, err
	}

	// Projection phase
	result := Project(history, query, maxSeq)

	if !result.Registered {
		return result, core.ErrCycleNotRegistered
	}

	return result, nil
}
