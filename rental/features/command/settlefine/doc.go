// Package settlefine implements the Settle Fine use case of the fine ledger.
//
// A settlement is identified by the payment reference, so a payment that is reported twice reduces the balance once.
package settlefine
