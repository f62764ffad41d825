package settlefine

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Decide implements the business logic to determine whether a payment can be settled against the fine balance.
//
// Business Rules:
//
//	GIVEN: A student with StudentID and a positive fine balance
//	WHEN: SettleFine command is received
//	THEN: FineSettled event is generated, decreasing the balance by the amount
//	ERROR: InvalidFineAmount if the amount is not positive or above the balance
//	IDEMPOTENCY: If a settlement with the same reference exists, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := core.ProjectFineAccount(history, command.StudentID)

	if account.HasSettlement(command.Reference) {
		return core.IdempotentDecision()
	}

	if command.Amount <= 0 || command.Amount > account.Balance() {
		return core.ErrorDecision(core.ErrInvalidFineAmount)
	}

	return core.SuccessDecision(
		core.BuildFineSettled(command.StudentID, command.Amount, command.Reference, command.OccurredAt),
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
