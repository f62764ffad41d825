package imposefine

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "ImposeFine"
)

// Command represents the intent to charge a fine to a student.
type Command struct {
	StudentID  core.StudentIDString
	Amount     int
	Reason     string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(studentID core.StudentIDString, amount int, reason string, occurredAt time.Time) Command {
	return Command{
		StudentID:  studentID,
		Amount:     amount,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.StudentID != ""
}
