package registercycle

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "RegisterCycle"
)

// Command represents the intent to put a new cycle into service.
type Command struct {
	CycleID    core.CycleIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(cycleID core.CycleIDString, occurredAt time.Time) Command {
	return Command{
		CycleID:    cycleID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.CycleID != ""
}
