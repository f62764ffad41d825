package settlefine

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "SettleFine"
)

// Command represents the intent to record a payment of a student towards the fine balance.
type Command struct {
	StudentID  core.StudentIDString
	Amount     int
	Reference  string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(studentID core.StudentIDString, amount int, reference string, occurredAt time.Time) Command {
	return Command{
		StudentID:  studentID,
		Amount:     amount,
		Reference:  reference,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

func (c Command) hasIdentities() bool {
	return c.StudentID != "" && c.Reference != ""
}
