package core

import (
	"time"
)

// CheckoutTokenRedeemingFailedEventType is the event type identifier.
const CheckoutTokenRedeemingFailedEventType = "CheckoutTokenRedeemingFailed"

// CheckoutTokenRedeemingFailed represents when redeeming a checkout token was rejected by a business rule.
type CheckoutTokenRedeemingFailed struct {
	TokenID     TokenIDString
	StudentID   StudentIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildCheckoutTokenRedeemingFailed creates a new CheckoutTokenRedeemingFailed event.
func BuildCheckoutTokenRedeemingFailed(
	tokenID TokenIDString,
	studentID StudentIDString,
	failureInfo string,
	occurredAt time.Time,
) CheckoutTokenRedeemingFailed {

	return CheckoutTokenRedeemingFailed{
		TokenID:     tokenID,
		StudentID:   studentID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CheckoutTokenRedeemingFailed) IsEventType() string {
	return CheckoutTokenRedeemingFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CheckoutTokenRedeemingFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a rejected command.
func (e CheckoutTokenRedeemingFailed) IsErrorEvent() bool {
	return true
}
