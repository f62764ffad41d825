package ratecycle

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a rental can be rated.
//
// Business Rules:
//
//	GIVEN: A completed rental with RentalID of the student with StudentID
//	WHEN: RateCycle command is received with a rating from 1 to 5
//	THEN: CycleRated event is generated
//	ERROR: InvalidRating, RentalNotFound, NotRentalOwner, RentalNotCompleted
//	ERROR: RentalAlreadyRated if the rental was rated with another rating
//	IDEMPOTENCY: If the rental was rated with the same rating, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.hasValidRating() {
		return core.ErrorDecision(core.ErrInvalidRating)
	}

	rental, found := core.FindRental(history, command.RentalID)

	switch {
	case !found:
		return core.ErrorDecision(core.ErrRentalNotFound)
	case rental.StudentID != command.StudentID:
		return core.ErrorDecision(core.ErrNotRentalOwner)
	case !rental.IsCompleted():
		return core.ErrorDecision(core.ErrRentalNotCompleted)
	case rental.IsRated() && rental.Rating == command.Rating:
		return core.IdempotentDecision()
	case rental.IsRated():
		return core.ErrorDecision(core.ErrRentalAlreadyRated)
	}

	return core.SuccessDecision(
		core.BuildCycleRated(rental.RentalID, rental.CycleID, rental.StudentID, command.Rating, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events of the specified rental.
func BuildEventFilter(rentalID core.RentalIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
			core.CycleRatedEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.FieldRentalID, rentalID)).
		Finalize()
}
