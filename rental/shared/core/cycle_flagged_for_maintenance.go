package core

import (
	"time"
)

// CycleFlaggedForMaintenanceEventType is the event type identifier.
const CycleFlaggedForMaintenanceEventType = "CycleFlaggedForMaintenance"

// CycleFlaggedForMaintenance represents when a cycle needs maintenance, for example after high usage.
type CycleFlaggedForMaintenance struct {
	CycleID    CycleIDString
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildCycleFlaggedForMaintenance creates a new CycleFlaggedForMaintenance event.
func BuildCycleFlaggedForMaintenance(
	cycleID CycleIDString,
	reason string,
	occurredAt time.Time,
) CycleFlaggedForMaintenance {

	return CycleFlaggedForMaintenance{
		CycleID:    cycleID,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CycleFlaggedForMaintenance) IsEventType() string {
	return CycleFlaggedForMaintenanceEventType
}

// HasOccurredAt returns when this event occurred.
func (e CycleFlaggedForMaintenance) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CycleFlaggedForMaintenance) IsErrorEvent() bool {
	return false
}
