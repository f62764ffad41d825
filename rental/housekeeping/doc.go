// Package housekeeping contains the background jobs that run next to the request handlers.
//
// TokenSweeper deletes token events which can not be redeemed anymore. Token validity is checked
// on read, so sweeping only keeps the event store small.
//
// EventRelay tails the event store and publishes the cycle lifecycle events to Kafka, where the
// maintenance workflow consumes them. Delivery is at-least-once: the cursor is saved after a batch was written.
package housekeeping
