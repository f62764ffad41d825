package imposefine

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a fine can be imposed.
//
// Business Rules:
//
//	GIVEN: A student with StudentID
//	WHEN: ImposeFine command is received
//	THEN: FineAccrued event is generated, increasing the balance by the amount
//	ERROR: InvalidFineAmount if the amount is not positive
func Decide(_ core.DomainEvents, command Command) core.DecisionResult {
	if command.Amount <= 0 {
		return core.ErrorDecision(core.ErrInvalidFineAmount)
	}

	return core.SuccessDecision(
		core.BuildFineAccrued(command.StudentID, "", command.Amount, command.Reason, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the fine account of the specified student.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.FineAccruedEventType,
			core.FineSettledEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.FieldStudentID, studentID)).
		Finalize()
}
