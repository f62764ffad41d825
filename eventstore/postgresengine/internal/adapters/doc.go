// Package adapters hides the differences between pgx.Pool, sql.DB, and sqlx.DB behind DBAdapter,
// so the PostgreSQL event store can run its queries and append transactions on any of them.
package adapters
