package rentalledger

import (
	"slices"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Project implements the query logic to list the rentals of a student.
//
// Query Logic:
//
//	GIVEN: A student with StudentID
//	WHEN: RentalsOfStudent query is executed
//	THEN: Rentals struct is returned, active rentals first, then completed ones by start time
//	INCLUDES: return details, fines, and ratings of completed rentals
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Rentals {
	rentals := make([]RentalInfo, 0)

	for _, rental := range core.ProjectRentals(history) {
		if rental.StudentID != query.StudentID {
			continue
		}

		rentals = append(rentals, RentalInfo{
			RentalID:                 rental.RentalID,
			CycleID:                  rental.CycleID,
			Status:                   rental.Status,
			IssuingGuardID:           rental.IssuingGuardID,
			ReturningGuardID:         rental.ReturningGuardID,
			RequestedDurationMinutes: rental.RequestedDurationMinutes,
			Location:                 rental.Location,
			ReturnLocation:           rental.ReturnLocation,
			StartedAt:                rental.StartedAt,
			EndedAt:                  rental.EndedAt,
			ElapsedMinutes:           rental.ElapsedMinutes,
			FineAmount:               rental.FineAmount,
			Rating:                   rental.Rating,
		})
	}

	// ProjectRentals already orders by start time, the stable sort keeps that within both groups
	slices.SortStableFunc(rentals, func(a, b RentalInfo) int {
		return activeRank(a) - activeRank(b)
	})

	return Rentals{
		StudentID:      query.StudentID,
		Rentals:        rentals,
		Count:          len(rentals),
		SequenceNumber: uint(maxSequenceNumber),
	}
}

func activeRank(r RentalInfo) int {
	if r.Status == core.RentalActive {
		return 0
	}

	return 1
}

// BuildEventFilter creates the filter for querying the rental events of the specified student.
// Ratings carry the StudentID too, so no second lookup by RentalID is needed.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CycleCheckedOutEventType,
			core.CycleCheckedInEventType,
			core.CycleRatedEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.FieldStudentID, studentID)).
		Finalize()
}
