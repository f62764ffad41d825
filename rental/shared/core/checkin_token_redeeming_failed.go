package core

import (
	"time"
)

// CheckinTokenRedeemingFailedEventType is the event type identifier.
const CheckinTokenRedeemingFailedEventType = "CheckinTokenRedeemingFailed"

// CheckinTokenRedeemingFailed represents when redeeming a checkin token was rejected by a business rule.
type CheckinTokenRedeemingFailed struct {
	TokenID     TokenIDString
	GuardID     GuardIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildCheckinTokenRedeemingFailed creates a new CheckinTokenRedeemingFailed event.
func BuildCheckinTokenRedeemingFailed(
	tokenID TokenIDString,
	guardID GuardIDString,
	failureInfo string,
	occurredAt time.Time,
) CheckinTokenRedeemingFailed {

	return CheckinTokenRedeemingFailed{
		TokenID:     tokenID,
		GuardID:     guardID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CheckinTokenRedeemingFailed) IsEventType() string {
	return CheckinTokenRedeemingFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CheckinTokenRedeemingFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected command.
func (e CheckinTokenRedeemingFailed) IsErrorEvent() bool {
	return true
}
