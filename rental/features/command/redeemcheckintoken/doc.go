// Package redeemcheckintoken implements the Redeem Checkin Token use case.
//
// A guard scans the checkin token of a student at the return location. One append completes the rental,
// frees the cycle, consumes the token and, for a late return, accrues the fine of the student.
package redeemcheckintoken
