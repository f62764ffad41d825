// Package core contains the domain events, decision results, pure projections, and the fine policy
// of the cycle rental protocol.
//
// A cycle is rented through two short-lived, single-use tokens: a guard issues a checkout token which
// the student redeems, later the student issues a checkin token which a guard redeems. Every state
// (cycle, rental, token, fine balance) is a projection over the domain events defined here,
// nothing in this package performs I/O.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
