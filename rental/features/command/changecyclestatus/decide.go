package changecyclestatus

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether the status of a cycle can be changed.
// Rejections are not recorded as events, they only concern the maintenance workflow.
//
// Business Rules:
//
//	GIVEN: A registered cycle with CycleID
//	WHEN: ChangeCycleStatus command is received with available, under_maintenance, or disabled
//	THEN: CycleStatusChanged event is generated
//	ERROR: InvalidCycleStatus if the status can not be set directly
//	ERROR: CycleNotRegistered if the cycle is unknown
//	ERROR: CycleDisabled if the cycle was disabled before
//	ERROR: CycleCurrentlyRented if an active rental holds the cycle
//	IDEMPOTENCY: If the cycle already has the status, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !core.IsSettableCycleStatus(command.Status) {
		return core.ErrorDecision(core.ErrInvalidCycleStatus)
	}

	cycle := core.ProjectCycle(history, command.CycleID)

	if !cycle.Registered {
		return core.ErrorDecision(core.ErrCycleNotRegistered)
	}

	if isUnchanged(cycle, command.Status) {
		return core.IdempotentDecision()
	}

	if cycle.Status == core.CycleDisabled {
		return core.ErrorDecision(core.ErrCycleDisabled)
	}

	if cycle.IsRented() {
		return core.ErrorDecision(core.ErrCycleCurrentlyRented)
	}

	return core.SuccessDecision(
		core.BuildCycleStatusChanged(command.CycleID, command.Status, command.Reason, command.OccurredAt),
	)
}

// isUnchanged also treats an available cycle with a pending maintenance flag as changed,
// setting it available again is the completed service that clears the flag.
func isUnchanged(cycle core.CycleState, status core.CycleStatus) bool {
	if cycle.Status != status {
		return false
	}

	return status != core.CycleAvailable || !cycle.NeedsMaintenance
}

// BuildEventFilter creates the filter for querying all events
// related to the specified cycle which are relevant for this feature/use-case.
func BuildEventFilter(cycleID core.CycleIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CycleRegisteredEventType,
			core.CycleStatusChangedEventType,
			core.CycleFlaggedForMaintenanceEventType,
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.FieldCycleID, cycleID)).
		Finalize()
}
