// Package cycleregistry implements the Get Cycle query use case.
//
// It returns the projected state of one cycle, which is what the maintenance workflow
// and the guards look at: status, current rental, usage, maintenance flag, and ratings.
package cycleregistry
