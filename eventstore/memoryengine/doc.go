// Package memoryengine provides an in-process event store with the same Query, Append, and Prune
// semantics as the PostgreSQL engine.
//
// Appends are serialized per lock key derived by eventstore.LockKeysFor, using weighted semaphores
// which a waiting append acquires with a timeout. It serves tests and single-instance deployments.
package memoryengine
