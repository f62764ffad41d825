package fineledger

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Project implements the query logic to determine the fine balance of a student.
//
// Query Logic:
//
//	GIVEN: A student with StudentID
//	WHEN: FineBalance query is executed
//	THEN: FineBalance struct is returned, Blocked if the balance is above the checkout limit
//	INCLUDES: the cumulative rented minutes of all completed rentals
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) FineBalance {
	account := core.ProjectFineAccount(history, query.StudentID)

	return FineBalance{
		StudentID:      query.StudentID,
		Balance:        account.Balance(),
		TotalAccrued:   account.TotalAccrued,
		TotalSettled:   account.TotalSettled,
		RentedMinutes:  account.RentedMinutes,
		Blocked:        account.IsBlocked(),
		SequenceNumber: uint(maxSequenceNumber),
	}
}

// BuildEventFilter creates the filter for querying the fine account events of the specified student.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.FineAccruedEventType,
			core.FineSettledEventType,
			core.CycleCheckedInEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.FieldStudentID, studentID)).
		Finalize()
}
