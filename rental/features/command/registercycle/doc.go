// Package registercycle implements the Register Cycle use case of the cycle registry.
package registercycle
