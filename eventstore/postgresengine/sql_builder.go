package postgresengine

import (
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

const (
	colEventType          = "event_type"
	colOccurredAt         = "occurred_at"
	colPayload            = "payload"
	colMetadata           = "metadata"
	colSequenceNumber     = "sequence_number"
	cteContext            = "context"
	cteVals               = "vals"
	dialectPostgres       = "postgres"
	aliasMaxSeq           = "max_seq"
	castText              = "?::text"
	castTimestamp         = "?::timestamp with time zone"
	castJsonb             = "?::jsonb"
	payloadContains       = "payload @> ?::jsonb"
	funcAdvisoryLock      = "pg_advisory_xact_lock"
	funcAdvisoryLockShare = "pg_advisory_xact_lock_shared"
)

type sqlQueryString = string

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	if filter.SequenceNumberHigherThan() > 0 {
		selectStmt = selectStmt.Where(goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildAppendQuery builds the appropriate SQL query for single or multiple events.
func (es *EventStore) buildAppendQuery(
	allEvents eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	switch len(allEvents) {
	case 0:
		return "", eventstore.ErrAppendWithoutEventsSupplied
	case 1:
		return es.buildInsertQueryForSingleEvent(allEvents[0], filter, expectedMaxSequenceNumber)
	default:
		return es.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
	}
}

func (es *EventStore) buildContextCTE(builder goqu.DialectWrapper, filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return addWhereClause(filter, cteStmt)
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildContextCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildContextCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	// one SELECT per event, combined in order with UNION ALL
	valuesStmt := buildEventValues(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(buildEventValues(builder, event))
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.I(cteVals+"."+colEventType),
					goqu.I(cteVals+"."+colOccurredAt),
					goqu.I(cteVals+"."+colPayload),
					goqu.I(cteVals+"."+colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildEventValues(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	)
}

func (es *EventStore) buildDeleteQuery(filter eventstore.Filter, occurredBefore time.Time) (sqlQueryString, error) {
	whereExpression, whereErr := buildWhereExpression(filter)
	if whereErr != nil {
		return "", whereErr
	}

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(es.eventTableName).
		Where(whereExpression, goqu.C(colOccurredAt).Lt(occurredBefore))

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause restricts the statement to the events matching the filter.
// A filter without items, or with an item lacking both event types and predicates, matches all events.
func addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if filter.IsEmpty() {
		return selectStmt, nil
	}

	whereExpression, whereErr := buildWhereExpression(filter)
	if whereErr != nil {
		return nil, whereErr
	}

	return selectStmt.Where(whereExpression), nil
}

func buildWhereExpression(filter eventstore.Filter) (exp.ExpressionList, error) {
	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0, len(item.EventTypes()))
		predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))

		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		for _, predicate := range item.Predicates() {
			containment, marshalErr := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
			if marshalErr != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, marshalErr)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, string(containment)))
		}

		var predicatesExpressionList exp.ExpressionList

		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		// eventTypes must always be filtered with OR
		itemsExpressions = append(
			itemsExpressions,
			goqu.And(goqu.Or(eventTypeExpressions...), predicatesExpressionList),
		)
	}

	return goqu.Or(itemsExpressions...), nil
}

type advisoryLock struct {
	id        int64
	exclusive bool
}

// buildLockQuery builds one statement taking all advisory locks in ascending id order.
// Lock names are hashed to 64-bit ids, names colliding on the same id are merged with exclusive winning.
func buildLockQuery(lockKeys []eventstore.LockKey) (sqlQueryString, error) {
	byID := make(map[int64]bool, len(lockKeys))
	for _, key := range lockKeys {
		id := advisoryLockID(key.Name)
		byID[id] = byID[id] || key.Exclusive
	}

	locks := make([]advisoryLock, 0, len(byID))
	for id, exclusive := range byID {
		locks = append(locks, advisoryLock{id: id, exclusive: exclusive})
	}

	slices.SortFunc(locks, func(a, b advisoryLock) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		default:
			return 0
		}
	})

	lockExpressions := make([]any, 0, len(locks))
	for _, lock := range locks {
		function := funcAdvisoryLockShare
		if lock.exclusive {
			function = funcAdvisoryLock
		}

		lockExpressions = append(lockExpressions, goqu.Func(function, lock.id))
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).Select(lockExpressions...).ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func advisoryLockID(name string) int64 {
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(name))

	return int64(hash.Sum64()) //nolint:gosec // wrapping into the signed advisory lock id space is intended
}

func buildLockTimeoutStatement(timeout time.Duration) sqlQueryString {
	return fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
}
