package issuecheckouttoken

import (
	"time"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

const (
	commandType = "IssueCheckoutToken"
)

// Command represents the intent of a guard to let a student check out a cycle.
// TokenID is generated by the caller with shell.NewTokenID, so a retried command issues the same token.
type Command struct {
	TokenID         core.TokenIDString
	GuardID         core.GuardIDString
	StudentID       core.StudentIDString
	CycleID         core.CycleIDString
	DurationMinutes int
	Location        string
	OccurredAt      core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	tokenID core.TokenIDString,
	guardID core.GuardIDString,
	studentID core.StudentIDString,
	cycleID core.CycleIDString,
	durationMinutes int,
	location string,
	occurredAt time.Time,
) Command {

	return Command{
		TokenID:         tokenID,
		GuardID:         guardID,
		StudentID:       studentID,
		CycleID:         cycleID,
		DurationMinutes: durationMinutes,
		Location:        location,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}

// ExpiresAt returns until when the token issued by this command can be redeemed.
func (c Command) ExpiresAt() time.Time {
	return core.ExpiresAt(c.OccurredAt)
}

func (c Command) hasIdentities() bool {
	return c.TokenID != "" && c.GuardID != "" && c.StudentID != "" && c.CycleID != ""
}
