package core

// CycleStatus is the lifecycle status of a cycle.
type CycleStatus = string

const (
	CycleAvailable        CycleStatus = "available"
	CycleRented           CycleStatus = "rented"
	CycleUnderMaintenance CycleStatus = "under_maintenance"
	CycleDisabled         CycleStatus = "disabled"
)

// IsSettableCycleStatus reports whether the maintenance workflow may set the status directly.
// Rented is only reachable through a checkout.
func IsSettableCycleStatus(status CycleStatus) bool {
	switch status {
	case CycleAvailable, CycleUnderMaintenance, CycleDisabled:
		return true
	default:
		return false
	}
}
