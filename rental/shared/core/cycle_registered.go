package core

import (
	"time"
)

// CycleRegisteredEventType is the event type identifier.
const CycleRegisteredEventType = "CycleRegistered"

// CycleRegistered represents when a cycle was put into service.
type CycleRegistered struct {
	CycleID    CycleIDString
	OccurredAt OccurredAtTS
}

// BuildCycleRegistered creates a new CycleRegistered event.
func BuildCycleRegistered(
	cycleID CycleIDString,
	occurredAt time.Time,
) CycleRegistered {

	return CycleRegistered{
		CycleID:    cycleID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CycleRegistered) IsEventType() string {
	return CycleRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e CycleRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CycleRegistered) IsErrorEvent() bool {
	return false
}
