// Package issuecheckintoken implements the Issue Checkin Token use case.
//
// A student who wants to return a cycle asks for a checkin token for the active rental.
// The token names the guard who issued the rental and is valid for 30 seconds.
// Nothing but the token is written, the rental ends when a guard redeems it.
package issuecheckintoken
