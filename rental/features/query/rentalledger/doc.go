// Package rentalledger implements the Rentals Of Student query use case.
//
// It lists all rentals of a student, the active one first, then the completed ones by start time.
package rentalledger
