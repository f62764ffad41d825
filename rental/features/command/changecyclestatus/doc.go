// Package changecyclestatus implements the Change Cycle Status use case of the maintenance workflow.
//
// The maintenance workflow moves cycles between available, under maintenance, and disabled.
// Setting a cycle available marks a completed service, which clears a pending maintenance flag
// and restarts the high usage count. Disabled is terminal and rented cycles can not be changed.
package changecyclestatus
