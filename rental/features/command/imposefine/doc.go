// Package imposefine implements the Impose Fine use case of the fine ledger.
//
// Administrators charge fines that are not caused by late returns, for example damage fees.
package imposefine
