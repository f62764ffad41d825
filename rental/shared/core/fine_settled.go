package core

import (
	"time"
)

// FineSettledEventType is the event type identifier.
const FineSettledEventType = "FineSettled"

// FineSettled represents when a student paid off a part of the fine balance.
type FineSettled struct {
	StudentID  StudentIDString
	Amount     int
	Reference  string
	OccurredAt OccurredAtTS
}

// BuildFineSettled creates a new FineSettled event.
func BuildFineSettled(
	studentID StudentIDString,
	amount int,
	reference string,
	occurredAt time.Time,
) FineSettled {

	return FineSettled{
		StudentID:  studentID,
		Amount:     amount,
		Reference:  reference,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e FineSettled) IsEventType() string {
	return FineSettledEventType
}

// HasOccurredAt returns when this event occurred.
func (e FineSettled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e FineSettled) IsErrorEvent() bool {
	return false
}
