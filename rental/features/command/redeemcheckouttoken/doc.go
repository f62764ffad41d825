// Package redeemcheckouttoken implements the Redeem Checkout Token use case.
//
// A student scans a checkout token. If it is valid and the cycle and the student are still free,
// one atomic append starts the rental, marks the cycle as rented, and consumes the token.
// The 50th rental since the last service additionally flags the cycle for maintenance.
//
// The query runs in two phases: first the token is read to learn its cycle,
// then everything the decision depends on is read with one filter, which is also the append condition.
// The token payload never changes, so reading it outside the append condition is safe.
package redeemcheckouttoken
