// Package issuecheckouttoken implements the Issue Checkout Token use case.
//
// A guard hands out a single-use token which lets one student check out one cycle within 30 seconds.
// Issuing a token changes no cycle or rental state: two guards may issue tokens for the same cycle
// to two students, the redemption decides who gets it.
//
// The handler resolves guard and student through the IdentityProvider, then follows the
// Query-Decide-Append pattern. Rejections are recorded as CheckoutTokenIssuingFailed events.
package issuecheckouttoken
