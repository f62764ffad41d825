// Package postgresengine provides a PostgreSQL implementation of the event store with dynamic event streams.
//
// It supports three database libraries (pgx, database/sql with lib/pq, sqlx) through internal adapters,
// an optional read replica for eventually consistent queries, and structured logging, metrics, and tracing
// through the interfaces of the eventstore package.
//
// An Append is one read-committed transaction:
//  1. SET LOCAL lock_timeout
//  2. take the transaction-scoped advisory locks derived from the filter and the appended events
//  3. insert all events with one statement, conditional on the max sequence number of the filter
//  4. commit
//
// Appends for disjoint identities take disjoint locks and never wait for each other.
//
// Usage:
//
//	db, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithLogger(logger),
//		postgresengine.WithLockTimeout(2*time.Second),
//	)
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
