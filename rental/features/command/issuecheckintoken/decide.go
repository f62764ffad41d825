package issuecheckintoken

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a checkin token should be issued.
//
// Business Rules:
//
//	GIVEN: A student with StudentID
//	WHEN: IssueCheckinToken command is received
//	THEN: CheckinTokenIssued event is generated for the active rental, valid for 30 seconds
//	ERROR: NoActiveRental if the student has no active rental
//	IDEMPOTENCY: If the token was already issued, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if core.ProjectToken(history, command.TokenID).Issued {
		return core.IdempotentDecision()
	}

	rental, hasActiveRental := core.ActiveRentalOfStudent(history, command.StudentID)
	if !hasActiveRental {
		event := core.BuildCheckinTokenIssuingFailed(command.StudentID, core.ErrNoActiveRental.Error(), command.OccurredAt)

		return core.ErrorDecision(core.DecisionError(event.IsEventType(), core.ErrNoActiveRental), event)
	}

	return core.SuccessDecision(
		core.BuildCheckinTokenIssued(
			command.TokenID,
			rental.RentalID,
			rental.CycleID,
			command.StudentID,
			rental.IssuingGuardID,
			command.ExpiresAt(),
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying all events
// related to the rentals of the specified student which are relevant for this feature/use-case.
func BuildEventFilter(studentID core.StudentIDString, tokenID core.TokenIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.FieldStudentID, studentID)).
		OrMatching().
		AnyEventTypeOf(core.CheckinTokenIssuedEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldTokenID, tokenID)).
		Finalize()
}
