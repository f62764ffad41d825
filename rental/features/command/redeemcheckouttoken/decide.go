package redeemcheckouttoken

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a checkout token starts a rental.
//
// Business Rules:
//
//	GIVEN: A checkout token with TokenID, issued for a cycle and a student
//	WHEN: RedeemCheckoutToken command is received from a student
//	THEN: CycleCheckedOut event is generated, it starts the rental and consumes the token
//	THEN: CycleFlaggedForMaintenance event is generated in addition if the cycle reaches 50 rentals since its last service
//	ERROR: InvalidOrExpiredToken if the token is unknown, not a checkout token, expired, or already consumed
//	ERROR: TokenNotOwned if the token was issued to another student
//	ERROR: RentalIDTaken if another rental already started with this RentalID
//	ERROR: CycleUnavailable if the cycle is no longer available
//	ERROR: DuplicateActiveRental if the student already has an active rental
//	IDEMPOTENCY: If the token was consumed by this RentalID for the same student, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	token := core.ProjectToken(history, command.TokenID)

	if token.Consumed && token.ConsumedByRentalID == command.RentalID && token.StudentID == command.StudentID {
		return core.IdempotentDecision()
	}

	if !token.IsRedeemableAt(core.TokenKindCheckout, command.OccurredAt) {
		return failed(command, core.ErrInvalidOrExpiredToken)
	}

	if token.StudentID != command.StudentID {
		return failed(command, core.ErrTokenNotOwned)
	}

	if _, taken := core.FindRental(history, command.RentalID); taken {
		return failed(command, core.ErrRentalIDTaken)
	}

	cycle := core.ProjectCycle(history, token.CycleID)
	if !cycle.IsAvailableForCheckout() {
		return failed(command, core.ErrCycleUnavailable)
	}

	if _, hasActiveRental := core.ActiveRentalOfStudent(history, command.StudentID); hasActiveRental {
		return failed(command, core.ErrDuplicateActiveRental)
	}

	checkedOut := core.BuildCycleCheckedOut(
		command.RentalID,
		token.CycleID,
		command.StudentID,
		token.GuardID,
		command.TokenID,
		token.DurationMinutes,
		token.Location,
		command.OccurredAt,
	)

	if cycle.ReachesHighUsageWithNextRental() {
		return core.SuccessDecision(
			checkedOut,
			core.BuildCycleFlaggedForMaintenance(token.CycleID, core.MaintenanceReasonHighUsage, command.OccurredAt),
		)
	}

	return core.SuccessDecision(checkedOut)
}

func failed(command Command, err error) core.DecisionResult {
	event := core.BuildCheckoutTokenRedeemingFailed(command.TokenID, command.StudentID, err.Error(), command.OccurredAt)

	return core.ErrorDecision(core.DecisionError(event.IsEventType(), err), event)
}

// BuildTokenFilter creates the filter for the first query phase, which only reads the token.
func BuildTokenFilter(tokenID core.TokenIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CheckoutTokenIssuedEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldTokenID, tokenID)).
		Finalize()
}

// BuildEventFilter creates the filter for querying all events
// related to the specified token, cycle, student, and rental which are relevant for this feature/use-case.
// An unknown token has no cycle, then the cycle is left out.
func BuildEventFilter(
	tokenID core.TokenIDString,
	cycleID core.CycleIDString,
	studentID core.StudentIDString,
	rentalID core.RentalIDString,
) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CheckoutTokenIssuedEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldTokenID, tokenID)).
		OrMatching().
		AnyEventTypeOf(
			core.CycleRegisteredEventType,
			core.CycleStatusChangedEventType,
			core.CycleFlaggedForMaintenanceEventType,
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
		).
		AndAnyPredicateOf(
			eventstore.P(core.FieldTokenID, tokenID),
			eventstore.P(core.FieldCycleID, cycleID),
			eventstore.P(core.FieldStudentID, studentID),
			eventstore.P(core.FieldRentalID, rentalID),
		).
		Finalize()
}
