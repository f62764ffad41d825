package postgresengine

import (
	"errors"
	"slices"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes of lock waits and serialization failures which a retry can resolve.
var concurrencyConflictCodes = []string{
	"55P03", // lock_not_available, raised when lock_timeout expires
	"40P01", // deadlock_detected
	"40001", // serialization_failure
}

// isConcurrencyConflict reports whether err is a retryable lock conflict, for both the pgx and the lib/pq driver.
func isConcurrencyConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return slices.Contains(concurrencyConflictCodes, pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return slices.Contains(concurrencyConflictCodes, string(pqErr.Code))
	}

	return false
}
