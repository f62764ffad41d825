package core

import (
	"time"
)

// TokenKind tells what a token authorizes.
type TokenKind = string

const (
	TokenKindCheckout TokenKind = "checkout"
	TokenKindCheckin  TokenKind = "checkin"
)

// TokenState is the projected state of one token.
// A token is consumed by the event that redeemed it, expiry is computed on read.
type TokenState struct {
	TokenID            TokenIDString
	Kind               TokenKind
	Issued             bool
	CycleID            CycleIDString
	StudentID          StudentIDString
	GuardID            GuardIDString
	RentalID           RentalIDString
	DurationMinutes    int
	Location           string
	IssuedAt           time.Time
	ExpiresAt          time.Time
	Consumed           bool
	ConsumedAt         time.Time
	ConsumedByRentalID RentalIDString
}

// ProjectToken replays the history and returns the state of the token with tokenID.
func ProjectToken(history DomainEvents, tokenID TokenIDString) TokenState {
	s := TokenState{TokenID: tokenID}

	for _, event := range history {
		switch e := event.(type) {
		case CheckoutTokenIssued:
			if e.TokenID == tokenID && !s.Issued {
				s.Issued = true
				s.Kind = TokenKindCheckout
				s.CycleID = e.CycleID
				s.StudentID = e.StudentID
				s.GuardID = e.GuardID
				s.DurationMinutes = e.DurationMinutes
				s.Location = e.Location
				s.IssuedAt = e.OccurredAt
				s.ExpiresAt = e.ExpiresAt
			}

		case CheckinTokenIssued:
			if e.TokenID == tokenID && !s.Issued {
				s.Issued = true
				s.Kind = TokenKindCheckin
				s.RentalID = e.RentalID
				s.CycleID = e.CycleID
				s.StudentID = e.StudentID
				s.GuardID = e.GuardID
				s.IssuedAt = e.OccurredAt
				s.ExpiresAt = e.ExpiresAt
			}

		case CycleCheckedOut:
			if e.TokenID == tokenID && !s.Consumed {
				s.Consumed = true
				s.ConsumedAt = e.OccurredAt
				s.ConsumedByRentalID = e.RentalID
			}

		case CycleCheckedIn:
			if e.TokenID == tokenID && !s.Consumed {
				s.Consumed = true
				s.ConsumedAt = e.OccurredAt
				s.ConsumedByRentalID = e.RentalID
			}
		}
	}

	return s
}

// IsExpiredAt reports whether the validity of the token ended. A token is valid strictly before ExpiresAt.
func (s TokenState) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsRedeemableAt reports whether a token of the given kind can be consumed at now.
func (s TokenState) IsRedeemableAt(kind TokenKind, now time.Time) bool {
	return s.Issued && s.Kind == kind && !s.Consumed && !s.IsExpiredAt(now)
}
