package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
)

const (
	logMsgSchemaCreated      = "schema created"
	logMsgCreateSchemaFailed = "failed to create schema"
)

// SchemaStatements returns the idempotent DDL statements for the events table and its indexes.
func (es *EventStore) SchemaStatements() []string {
	table := pq.QuoteIdentifier(es.eventTableName)

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s BIGSERIAL PRIMARY KEY,
	%s TEXT NOT NULL,
	%s TIMESTAMPTZ NOT NULL,
	%s JSONB NOT NULL,
	%s JSONB NOT NULL
)`, table, colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (%s)`,
			pq.QuoteIdentifier(es.eventTableName+"_event_type_idx"), table, colEventType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (%s)`,
			pq.QuoteIdentifier(es.eventTableName+"_occurred_at_idx"), table, colOccurredAt),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING gin (%s jsonb_path_ops)`,
			pq.QuoteIdentifier(es.eventTableName+"_payload_idx"), table, colPayload),
	}
}

// CreateSchema creates the events table and its indexes unless they exist.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	for _, statement := range es.SchemaStatements() {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, logMsgCreateSchemaFailed, err, logAttrQuery, statement)

			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	es.logOperation(ctx, logMsgSchemaCreated)

	return nil
}
