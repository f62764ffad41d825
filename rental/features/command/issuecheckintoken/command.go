package issuecheckintoken

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "IssueCheckinToken"
)

// Command represents the intent of a student to return the cycle of the active rental.
type Command struct {
	TokenID    core.TokenIDString
	StudentID  core.StudentIDString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(tokenID core.TokenIDString, studentID core.StudentIDString, occurredAt time.Time) Command {
	return Command{
		TokenID:    tokenID,
		StudentID:  studentID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// ExpiresAt returns until when the token issued by this command can be redeemed.
func (c Command) ExpiresAt() time.Time {
	return core.ExpiresAt(c.OccurredAt)
}

func (c Command) hasIdentities() bool {
	return c.TokenID != "" && c.StudentID != ""
}
