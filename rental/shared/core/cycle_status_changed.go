package core

import (
	"time"
)

// CycleStatusChangedEventType is the event type identifier.
const CycleStatusChangedEventType = "CycleStatusChanged"

// CycleStatusChanged represents when the maintenance workflow or an admin changed the status of a cycle.
type CycleStatusChanged struct {
	CycleID    CycleIDString
	Status     CycleStatus
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildCycleStatusChanged creates a new CycleStatusChanged event.
func BuildCycleStatusChanged(
	cycleID CycleIDString,
	status CycleStatus,
	reason string,
	occurredAt time.Time,
) CycleStatusChanged {

	return CycleStatusChanged{
		CycleID:    cycleID,
		Status:     status,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CycleStatusChanged) IsEventType() string {
	return CycleStatusChangedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CycleStatusChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CycleStatusChanged) IsErrorEvent() bool {
	return false
}
