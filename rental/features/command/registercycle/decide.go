package registercycle

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a cycle should be registered.
//
// Business Rules:
//
//	GIVEN: A cycle with CycleID
//	WHEN: RegisterCycle command is received
//	THEN: CycleRegistered event is generated, the cycle is available
//	IDEMPOTENCY: If the cycle is already registered, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if core.ProjectCycle(history, command.CycleID).Registered {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildCycleRegistered(command.CycleID, command.OccurredAt))
}

// BuildEventFilter creates the filter for querying the registration of the specified cycle.
func BuildEventFilter(cycleID core.CycleIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CycleRegisteredEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldCycleID, cycleID)).
		Finalize()
}
