package registercycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/registercycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

func Test_CommandHandler_Handle_RegistersOnce(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := registercycle.NewCommandHandler(es)

	// act
	first, err := handler.Handle(ctx, registercycle.BuildCommand(CycleID, fakeClock))
	require.NoError(t, err)

	second, retryErr := handler.Handle(ctx, registercycle.BuildCommand(CycleID, fakeClock))
	require.NoError(t, retryErr)

	// assert
	assert.False(t, first.Idempotent)
	assert.True(t, second.Idempotent)
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.CycleRegisteredEventType), 1)
}

func Test_CommandHandler_Handle_Error_InvalidCommand(t *testing.T) {
	handler := registercycle.NewCommandHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), registercycle.BuildCommand("", fakeClock))

	assert.ErrorIs(t, err, shell.ErrInvalidCommand)
}
