// Package ratecycle implements the Rate Cycle use case.
//
// After the return, the student of a rental may rate its cycle once with 1 to 5 stars.
package ratecycle
