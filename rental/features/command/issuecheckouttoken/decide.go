package issuecheckouttoken

import (
	"strings"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a checkout token should be issued.
// This is a pure function with no side effects, the actors are resolved by the caller.
//
// Business Rules:
//
//	GIVEN: A cycle with CycleID, a student with StudentID, and a guard with GuardID
//	WHEN: IssueCheckoutToken command is received
//	THEN: CheckoutTokenIssued event is generated, valid for 30 seconds
//	ERROR: InvalidRentalRequest if the duration is not positive or the location is empty
//	ERROR: InvalidActor if the guard or the student is unknown, disabled, or has another role
//	ERROR: FineLimitExceeded if the fine balance of the student is above 500
//	ERROR: CycleUnavailable if the cycle is not registered, not available, or needs maintenance
//	ERROR: DuplicateActiveRental if the student already has an active rental
//	IDEMPOTENCY: If the token was already issued, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, guard core.Actor, student core.Actor) core.DecisionResult {
	if core.ProjectToken(history, command.TokenID).Issued {
		return core.IdempotentDecision()
	}

	if command.DurationMinutes <= 0 || strings.TrimSpace(command.Location) == "" {
		return failed(command, core.ErrInvalidRentalRequest)
	}

	if !guard.IsActive(core.RoleGuard) || !student.IsActive(core.RoleStudent) {
		return failed(command, core.ErrInvalidActor)
	}

	if core.ProjectFineAccount(history, command.StudentID).IsBlocked() {
		return failed(command, core.ErrFineLimitExceeded)
	}

	if !core.ProjectCycle(history, command.CycleID).IsAvailableForCheckout() {
		return failed(command, core.ErrCycleUnavailable)
	}

	if _, hasActiveRental := core.ActiveRentalOfStudent(history, command.StudentID); hasActiveRental {
		return failed(command, core.ErrDuplicateActiveRental)
	}

	return core.SuccessDecision(
		core.BuildCheckoutTokenIssued(
			command.TokenID,
			command.CycleID,
			command.StudentID,
			command.GuardID,
			command.DurationMinutes,
			command.Location,
			command.ExpiresAt(),
			command.OccurredAt,
		),
	)
}

func failed(command Command, err error) core.DecisionResult {
	event := core.BuildCheckoutTokenIssuingFailed(
		command.CycleID,
		command.StudentID,
		command.GuardID,
		err.Error(),
		command.OccurredAt,
	)

	return core.ErrorDecision(core.DecisionError(event.IsEventType(), err), event)
}

// BuildEventFilter creates the filter for querying all events
// related to the specified cycle, student, and token which are relevant for this feature/use-case.
func BuildEventFilter(cycleID core.CycleIDString, studentID core.StudentIDString, tokenID core.TokenIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CycleRegisteredEventType,
			core.CycleStatusChangedEventType,
			core.CycleFlaggedForMaintenanceEventType,
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
			core.FineAccruedEventType,
			core.FineSettledEventType,
		).
		AndAnyPredicateOf(
			eventstore.P(core.FieldCycleID, cycleID),
			eventstore.P(core.FieldStudentID, studentID),
		).
		OrMatching().
		AnyEventTypeOf(core.CheckoutTokenIssuedEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldTokenID, tokenID)).
		Finalize()
}
