package cycleregistry

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Project implements the query logic to determine the current state of a cycle.
//
// Query Logic:
//
//	GIVEN: A cycle with CycleID
//	WHEN: GetCycle query is executed
//	THEN: Cycle struct is returned with the state projected from all events of the cycle
//	INCLUDES: unregistered cycles, with Registered set to false
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Cycle {
	state := core.ProjectCycle(history, query.CycleID)

	return Cycle{
		CycleID:           state.CycleID,
		Registered:        state.Registered,
		Status:            state.Status,
		CurrentRentalID:   state.CurrentRentalID,
		TotalRentCount:    state.TotalRentCount,
		RentsSinceService: state.RentsSinceService,
		NeedsMaintenance:  state.NeedsMaintenance,
		MaintenanceReason: state.MaintenanceReason,
		AverageRating:     state.AverageRating(),
		TotalRatings:      state.TotalRatings,
		SequenceNumber:    uint(maxSequenceNumber),
	}
}

// BuildEventFilter creates the filter for querying all events of the specified cycle.
func BuildEventFilter(cycleID core.CycleIDString) eventstore.Filter {
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
		AndAnyPredicateOf(eventstore.P(core.FieldCycleID, cycleID)).
		Finalize()
}
