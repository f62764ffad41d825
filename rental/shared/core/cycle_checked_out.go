package core

import (
	"time"
)

// CycleCheckedOutEventType is the event type identifier.
const CycleCheckedOutEventType = "CycleCheckedOut"

// CycleCheckedOut represents when a student redeemed a checkout token: the rental started, the cycle is rented, and the token is consumed.
type CycleCheckedOut struct {
	RentalID        RentalIDString
	CycleID         CycleIDString
	StudentID       StudentIDString
	GuardID         GuardIDString
	TokenID         TokenIDString
	DurationMinutes int
	Location        string
	OccurredAt      OccurredAtTS
}

// BuildCycleCheckedOut creates a new CycleCheckedOut event.
func BuildCycleCheckedOut(
	rentalID RentalIDString,
	cycleID CycleIDString,
	studentID StudentIDString,
	guardID GuardIDString,
	tokenID TokenIDString,
	durationMinutes int,
	location string,
	occurredAt time.Time,
) CycleCheckedOut {

	return CycleCheckedOut{
		RentalID:        rentalID,
		CycleID:         cycleID,
		StudentID:       studentID,
		GuardID:         guardID,
		TokenID:         tokenID,
		DurationMinutes: durationMinutes,
		Location:        location,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CycleCheckedOut) IsEventType() string {
	return CycleCheckedOutEventType
}

// HasOccurredAt returns when this event occurred.
func (e CycleCheckedOut) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CycleCheckedOut) IsErrorEvent() bool {
	return false
}
