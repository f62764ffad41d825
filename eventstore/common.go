package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName         = errors.New("events table name must not be empty")
	ErrNilDatabaseConnection        = errors.New("database connection must not be nil")
	ErrConcurrencyConflict          = errors.New("concurrency error, no rows were affected")
	ErrBuildingQueryFailed          = errors.New("building the query failed")
	ErrQueryingEventsFailed         = errors.New("querying events failed")
	ErrScanningDBRowFailed          = errors.New("scanning the database row failed")
	ErrBuildingStorableEventFailed  = errors.New("building the storable event failed")
	ErrAppendingEventFailed         = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed    = errors.New("getting the rows affected failed")
	ErrBeginningTransactionFailed   = errors.New("beginning the transaction failed")
	ErrAcquiringLocksFailed         = errors.New("acquiring the append locks failed")
	ErrCommittingTransactionFailed  = errors.New("committing the transaction failed")
	ErrPruningEventsFailed          = errors.New("pruning events failed")
	ErrCreatingSchemaFailed         = errors.New("creating the events schema failed")
	ErrInvalidLockTimeout           = errors.New("lock timeout must be positive")
	ErrAppendWithoutEventsSupplied  = errors.New("at least one event must be supplied for append")
	ErrPruneWithEmptyFilterSupplied = errors.New("prune requires a filter with at least one item")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
