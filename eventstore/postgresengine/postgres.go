package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"
	defaultLockTimeout    = 2 * time.Second

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgBuildLockQueryFailed     = "failed to build lock query"
	logMsgBeginTxFailed            = "failed to begin append transaction"
	logMsgAcquireLocksFailed       = "failed to acquire append locks"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgCommitFailed             = "failed to commit append transaction"
	logMsgRollbackFailed           = "failed to roll back append transaction"
	logMsgPruneFailed              = "failed to prune events"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgEventsPruned             = "events pruned"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrLockCount               = "lock_count"
	logAttrDurationMS              = "duration_ms"
	logAttrExpectedEvents          = "expected_events"
	logAttrRowsAffected            = "rows_affected"
	logAttrExpectedSequence        = "expected_sequence"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	logActionLock                  = "lock"
	logActionPrune                 = "prune"
	errorTypeBuildQuery            = "build_query"
	errorTypeDatabaseQuery         = "database_query"
	errorTypeRowScan               = "row_scan"
	errorTypeBuildStorableEvent    = "build_storable_event"
	errorTypeBeginTx               = "begin_transaction"
	errorTypeLocks                 = "acquire_locks"
	errorTypeDatabaseExec          = "database_exec"
	errorTypeRowsAffected          = "rows_affected"
	errorTypeCommit                = "commit"
	errorTypeConcurrencyConflict   = "concurrency_conflict"
)

// EventStore represents a storage mechanism for handling and querying events in an event sourcing implementation.
// It leverages a database adapter and supports customizable logging, metrics, tracing, and event table configuration.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	lockTimeout      time.Duration
	lockKeyFields    []string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore using a primary and a replica pgx Pool.
// Queries with eventstore.WithEventualConsistency contexts are served by the replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		lockTimeout:    defaultLockTimeout,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query retrieves events from the Postgres event store based on the provided eventstore.Filter criteria
// and returns them as eventstore.StorableEvents
// as well as the MaxSequenceNumberUint for this "dynamic event stream" at the time of the query.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	observer, ctx := es.startQueryObservation(ctx)

	var empty eventstore.StorableEvents

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		observer.finishError(errorTypeBuildQuery, 0)

		return empty, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.logQueryWithDuration(ctx, sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		es.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		observer.finishError(errorTypeDatabaseQuery, time.Since(start))

		return empty, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		observer.finishError(errorType, time.Since(start))

		return empty, 0, scanErr
	}

	duration := time.Since(start)
	es.logOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, toMilliseconds(duration))

	observer.finishSuccess(eventStream, maxSequenceNumber, duration)

	return eventStream, maxSequenceNumber, nil
}

// closeRows safely closes database rows and logs any errors.
func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// processQueryResults processes database rows and converts them to storable events.
func (es *EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	string,
	error,
) {

	result := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber)
		if rowScanErr != nil {
			es.logError(ctx, logMsgScanRowFailed, rowScanErr)

			return nil, 0, errorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			es.logError(ctx, logMsgBuildStorableEventFailed, buildStorableErr, logAttrEventType, result.eventType)

			return nil, 0, errorTypeBuildStorableEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		eventStream = append(eventStream, event.WithSequenceNumber(result.sequenceNumber))
		maxSequenceNumber = result.sequenceNumber
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		es.logError(ctx, logMsgScanRowFailed, rowsErr)

		return nil, 0, errorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, rowsErr)
	}

	return eventStream, maxSequenceNumber, "", nil
}

// Append attempts to append one or multiple eventstore.StorableEvent(s) onto the Postgres event store respecting concurrency constraints
// for this "dynamic event stream" based on the provided eventstore.Filter criteria and the expected MaxSequenceNumberUint.
//
// The provided eventstore.Filter criteria should be the same as the ones used for the Query before making the business decisions.
//
// The append runs in one transaction which first takes the transaction-scoped advisory locks derived by
// eventstore.LockKeysFor, in ascending key order, and then inserts all events with one conditional statement.
// Either all events are appended or none.
// Waiting longer than the lock timeout for a conflicting append fails with eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	observer, ctx := es.startAppendObservation(ctx, allEvents, expectedMaxSequenceNumber)

	insertQuery, buildQueryErr := es.buildAppendQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		observer.finishError(errorTypeBuildQuery, 0)

		return buildQueryErr
	}

	lockKeys, lockKeysErr := eventstore.LockKeysFor(filter, allEvents, es.lockKeyFields...)
	if lockKeysErr != nil {
		es.logError(ctx, logMsgBuildLockQueryFailed, lockKeysErr)
		observer.finishError(errorTypeBuildQuery, 0)

		return lockKeysErr
	}

	lockQuery, buildLockQueryErr := buildLockQuery(lockKeys)
	if buildLockQueryErr != nil {
		es.logError(ctx, logMsgBuildLockQueryFailed, buildLockQueryErr)
		observer.finishError(errorTypeBuildQuery, 0)

		return buildLockQueryErr
	}

	start := time.Now()
	rowsAffected, errorType, appendErr := es.appendInTransaction(ctx, lockQuery, len(lockKeys), insertQuery)
	duration := time.Since(start)

	if appendErr != nil {
		if errors.Is(appendErr, eventstore.ErrConcurrencyConflict) {
			es.logOperation(ctx, logMsgConcurrencyConflict, logAttrError, appendErr.Error())
			observer.recordConcurrencyConflict()
		}

		observer.finishError(errorType, duration)

		return appendErr
	}

	if rowsAffected < int64(len(allEvents)) {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(allEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)

		observer.recordConcurrencyConflict()
		observer.finishError(errorTypeConcurrencyConflict, duration)

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(
		ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrDurationMS, toMilliseconds(duration),
	)

	observer.finishSuccess(len(allEvents), rowsAffected, duration)

	return nil
}

// appendInTransaction locks, inserts, and commits.
// The transaction is rolled back if the insert did not append all events.
func (es *EventStore) appendInTransaction(
	ctx context.Context,
	lockQuery string,
	lockCount int,
	insertQuery string,
) (int64, string, error) {

	tx, beginErr := es.db.BeginTx(ctx)
	if beginErr != nil {
		es.logError(ctx, logMsgBeginTxFailed, beginErr)

		return 0, errorTypeBeginTx, errors.Join(eventstore.ErrBeginningTransactionFailed, beginErr)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			es.logWarn(ctx, logMsgRollbackFailed, rollbackErr)
		}
	}()

	lockStart := time.Now()
	if _, err := tx.Exec(ctx, buildLockTimeoutStatement(es.lockTimeout)); err != nil {
		es.logError(ctx, logMsgAcquireLocksFailed, err)

		return 0, errorTypeLocks, errors.Join(eventstore.ErrAcquiringLocksFailed, err)
	}

	if _, err := tx.Exec(ctx, lockQuery); err != nil {
		es.logQueryWithDuration(ctx, lockQuery, logActionLock, time.Since(lockStart))

		if isConcurrencyConflict(err) {
			return 0, errorTypeConcurrencyConflict, errors.Join(eventstore.ErrConcurrencyConflict, err)
		}

		es.logError(ctx, logMsgAcquireLocksFailed, err, logAttrLockCount, lockCount)

		return 0, errorTypeLocks, errors.Join(eventstore.ErrAcquiringLocksFailed, err)
	}
	es.logQueryWithDuration(ctx, lockQuery, logActionLock, time.Since(lockStart))

	insertStart := time.Now()
	result, execErr := tx.Exec(ctx, insertQuery)
	es.logQueryWithDuration(ctx, insertQuery, logActionAppend, time.Since(insertStart))

	if execErr != nil {
		if isConcurrencyConflict(execErr) {
			return 0, errorTypeConcurrencyConflict, errors.Join(eventstore.ErrConcurrencyConflict, execErr)
		}

		es.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, insertQuery)

		return 0, errorTypeDatabaseExec, errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)

		return 0, errorTypeRowsAffected, errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected == 0 {
		return 0, "", nil
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		if isConcurrencyConflict(commitErr) {
			return 0, errorTypeConcurrencyConflict, errors.Join(eventstore.ErrConcurrencyConflict, commitErr)
		}

		es.logError(ctx, logMsgCommitFailed, commitErr)

		return 0, errorTypeCommit, errors.Join(eventstore.ErrCommittingTransactionFailed, commitErr)
	}

	committed = true

	return rowsAffected, "", nil
}

// Prune deletes all events matching the filter which occurred before occurredBefore and returns how many were deleted.
//
// It exists for housekeeping of short-lived events, e.g., expired tokens.
// Pruned events must not be needed by any future decision.
func (es *EventStore) Prune(ctx context.Context, filter eventstore.Filter, occurredBefore time.Time) (int64, error) {
	if filter.IsEmpty() {
		return 0, eventstore.ErrPruneWithEmptyFilterSupplied
	}

	observer, ctx := es.startPruneObservation(ctx)

	deleteQuery, buildErr := es.buildDeleteQuery(filter, occurredBefore)
	if buildErr != nil {
		es.logError(ctx, logMsgPruneFailed, buildErr)
		observer.finishError(errorTypeBuildQuery, 0)

		return 0, buildErr
	}

	start := time.Now()
	result, execErr := es.db.Exec(ctx, deleteQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(ctx, deleteQuery, logActionPrune, duration)

	if execErr != nil {
		es.logError(ctx, logMsgPruneFailed, execErr, logAttrQuery, deleteQuery)
		observer.finishError(errorTypeDatabaseExec, duration)

		return 0, errors.Join(eventstore.ErrPruningEventsFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		observer.finishError(errorTypeRowsAffected, duration)

		return 0, errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	es.logOperation(ctx, logMsgEventsPruned, logAttrEventCount, rowsAffected, logAttrDurationMS, toMilliseconds(duration))
	observer.finishSuccess(int(rowsAffected), rowsAffected, duration)

	return rowsAffected, nil
}
