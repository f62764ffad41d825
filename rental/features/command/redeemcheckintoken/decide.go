package redeemcheckintoken

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a checkin token can be redeemed.
//
// Business Rules:
//
//	GIVEN: A checkin token with TokenID, issued less than 30 seconds ago for an active rental
//	WHEN: RedeemCheckinToken command is received from an active guard
//	THEN: CycleCheckedIn event is generated with the elapsed minutes and the fine of the rental,
//	      plus FineAccrued if the fine is above zero
//	ERROR: InvalidActor, InvalidOrExpiredToken, RentalAlreadyClosed
//	IDEMPOTENCY: If the same guard already redeemed this token, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, guard core.Actor, policy core.FinePolicy) core.DecisionResult {
	if !guard.IsActive(core.RoleGuard) {
		return failed(command, core.ErrInvalidActor)
	}

	token := core.ProjectToken(history, command.TokenID)
	rental, found := core.FindRental(history, token.RentalID)

	if token.Consumed && found && rental.IsCompleted() && rental.ReturningGuardID == command.GuardID {
		return core.IdempotentDecision()
	}

	if !token.IsRedeemableAt(core.TokenKindCheckin, command.OccurredAt) {
		return failed(command, core.ErrInvalidOrExpiredToken)
	}

	if !found || !rental.IsActive() {
		return failed(command, core.ErrRentalAlreadyClosed)
	}

	elapsedMinutes := core.ElapsedMinutes(rental.StartedAt, command.OccurredAt)
	fineAmount := policy.Calculate(rental.RequestedDurationMinutes, elapsedMinutes)

	checkedIn := core.BuildCycleCheckedIn(
		rental.RentalID,
		rental.CycleID,
		rental.StudentID,
		command.GuardID,
		command.TokenID,
		command.ReturnLocation,
		elapsedMinutes,
		fineAmount,
		command.OccurredAt,
	)

	if fineAmount > 0 {
		return core.SuccessDecision(
			checkedIn,
			core.BuildFineAccrued(rental.StudentID, rental.RentalID, fineAmount, core.FineReasonLateReturn, command.OccurredAt),
		)
	}

	return core.SuccessDecision(checkedIn)
}

func failed(command Command, err error) core.DecisionResult {
	event := core.BuildCheckinTokenRedeemingFailed(command.TokenID, command.GuardID, err.Error(), command.OccurredAt)

	return core.ErrorDecision(core.DecisionError(event.IsEventType(), err), event)
}

// BuildTokenFilter creates the filter to look up which rental a checkin token belongs to.
func BuildTokenFilter(tokenID core.TokenIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CheckinTokenIssuedEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldTokenID, tokenID)).
		Finalize()
}

// BuildEventFilter creates the filter for querying all events
// related to the token and its rental which are relevant for this feature/use-case.
func BuildEventFilter(tokenID core.TokenIDString, rentalID core.RentalIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.CheckinTokenIssuedEventType).
		AndAnyPredicateOf(eventstore.P(core.FieldTokenID, tokenID)).
		OrMatching().
		AnyEventTypeOf(
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
		).
		AndAnyPredicateOf(
			eventstore.P(core.FieldTokenID, tokenID),
			eventstore.P(core.FieldRentalID, rentalID),
		).
		Finalize()
}
