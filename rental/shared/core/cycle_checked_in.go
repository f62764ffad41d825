package core

import (
	"time"
)

// CycleCheckedInEventType is the event type identifier.
const CycleCheckedInEventType = "CycleCheckedIn"

// CycleCheckedIn represents when a guard redeemed a checkin token: the rental is completed, the cycle is available again, and the token is consumed.
type CycleCheckedIn struct {
	RentalID       RentalIDString
	CycleID        CycleIDString
	StudentID      StudentIDString
	GuardID        GuardIDString
	TokenID        TokenIDString
	ReturnLocation string
	ElapsedMinutes int
	FineAmount     int
	OccurredAt     OccurredAtTS
}

// BuildCycleCheckedIn creates a new CycleCheckedIn event.
func BuildCycleCheckedIn(
	rentalID RentalIDString,
	cycleID CycleIDString,
	studentID StudentIDString,
	guardID GuardIDString,
	tokenID TokenIDString,
	returnLocation string,
	elapsedMinutes int,
	fineAmount int,
	occurredAt time.Time,
) CycleCheckedIn {

	return CycleCheckedIn{
		RentalID:       rentalID,
		CycleID:        cycleID,
		StudentID:      studentID,
		GuardID:        guardID,
		TokenID:        tokenID,
		ReturnLocation: returnLocation,
		ElapsedMinutes: elapsedMinutes,
		FineAmount:     fineAmount,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CycleCheckedIn) IsEventType() string {
	return CycleCheckedInEventType
}

// HasOccurredAt returns when this event occurred.
func (e CycleCheckedIn) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CycleCheckedIn) IsErrorEvent() bool {
	return false
}
