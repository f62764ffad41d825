package changecyclestatus

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "ChangeCycleStatus"
)

// Command represents the intent of the maintenance workflow to change the status of a cycle.
type Command struct {
	CycleID    core.CycleIDString
	Status     core.CycleStatus
	Reason     string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(cycleID core.CycleIDString, status core.CycleStatus, reason string, occurredAt time.Time) Command {
	return Command{
		CycleID:    cycleID,
		Status:     status,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.CycleID != ""
}
