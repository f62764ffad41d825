package cycleregistry

import (
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

// Cycle represents the query result with the current state of a cycle.
type Cycle struct {
	CycleID           core.CycleIDString
	Registered        bool
	Status            core.CycleStatus
	CurrentRentalID   core.RentalIDString
	TotalRentCount    int
	RentsSinceService int
	NeedsMaintenance  bool
	MaintenanceReason string
	AverageRating     float64
	TotalRatings      int
	SequenceNumber    uint
}

// GetSequenceNumber returns the sequence number of the last event in the event history that was used to build the projection.
func (r Cycle) GetSequenceNumber() uint {
	return r.SequenceNumber
}
