package changecyclestatus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/changecyclestatus"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := changecyclestatus.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRegisteredCycle(t)...)

	// act
	result, err := handler.Handle(ctx, changecyclestatus.BuildCommand(CycleID, core.CycleUnderMaintenance, "brakes", fakeClock))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	changed := QueryEventsOfType(t, ctx, es, core.CycleStatusChangedEventType)
	require.Len(t, changed, 1)
	assert.Equal(t, "brakes", changed[0].(core.CycleStatusChanged).Reason)
}

func Test_CommandHandler_Handle_Error_CycleCurrentlyRented_AppendsNothing(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := changecyclestatus.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRegisteredCycle(t, FixtureCycleCheckedOut("R1", CycleID, StudentID, fakeClock.Add(-time.Minute)))...)

	// act
	_, err := handler.Handle(ctx, changecyclestatus.BuildCommand(CycleID, core.CycleDisabled, "", fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrCycleCurrentlyRented)
	assert.Empty(t, QueryEventsOfType(t, ctx, es, core.CycleStatusChangedEventType))
}

func Test_CommandHandler_Handle_Error_InvalidCommand(t *testing.T) {
	handler := changecyclestatus.NewCommandHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), changecyclestatus.BuildCommand("", core.CycleDisabled, "", fakeClock))

	assert.ErrorIs(t, err, shell.ErrInvalidCommand)
}
