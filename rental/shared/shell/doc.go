// Package shell provides the infrastructure shared by all feature slices of the cycle rental service:
// conversion between domain events and storable events, event metadata, token identities,
// the retry loop for optimistic appends, and the observability helpers used by the handler wrappers.
//
// This package implements the "imperative shell" pattern around the functional core in rental/shared/core.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
