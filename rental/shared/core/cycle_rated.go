package core

import (
	"time"
)

// CycleRatedEventType is the event type identifier.
const CycleRatedEventType = "CycleRated"

// CycleRated represents when a student rated the cycle of a completed rental.
type CycleRated struct {
	RentalID   RentalIDString
	CycleID    CycleIDString
	StudentID  StudentIDString
	Rating     int
	OccurredAt OccurredAtTS
}

// BuildCycleRated creates a new CycleRated event.
func BuildCycleRated(
	rentalID RentalIDString,
	cycleID CycleIDString,
	studentID StudentIDString,
	rating int,
	occurredAt time.Time,
) CycleRated {

	return CycleRated{
		RentalID:   rentalID,
		CycleID:    cycleID,
		StudentID:  studentID,
		Rating:     rating,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CycleRated) IsEventType() string {
	return CycleRatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CycleRated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CycleRated) IsErrorEvent() bool {
	return false
}
