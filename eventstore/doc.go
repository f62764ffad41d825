// Package eventstore provides the core abstractions of an event store with dynamic event streams,
// also known as Dynamic Consistency Boundaries.
//
// There are no fixed streams. A command handler queries exactly the events its decision depends on
// with a Filter, decides, and appends the resulting events guarded by the same Filter and the
// max sequence number it observed. The append fails with ErrConcurrencyConflict if any event matching
// the Filter was appended in between.
//
// Engines serialize concurrent appends per identity using the keys derived by LockKeysFor,
// so appends touching disjoint identities never wait for each other.
//
// Common usage pattern:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.CycleCheckedOutEventType,
//			core.CycleCheckedInEventType).
//		AndAnyPredicateOf(eventstore.P("CycleID", cycleID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	newEvent, _ := eventstore.BuildStorableEvent(eventType, occurredAt, payload, metadata)
//	err = store.Append(ctx, filter, maxSeq, newEvent)
package eventstore
