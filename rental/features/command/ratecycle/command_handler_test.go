package ratecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/ratecycle"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

func Test_CommandHandler_Handle_FeedsTheAverageRating(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := ratecycle.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(
		t,
		ctx,
		es,
		FixtureCycleCheckedOut("R1", CycleID, StudentID, fakeClock.Add(-4*time.Hour)),
		FixtureCycleCheckedIn("R1", CycleID, StudentID, fakeClock.Add(-3*time.Hour)),
		FixtureCycleCheckedOut("R2", CycleID, OtherStudentID, fakeClock.Add(-2*time.Hour)),
		FixtureCycleCheckedIn("R2", CycleID, OtherStudentID, fakeClock.Add(-time.Hour)),
	)

	// act
	_, err := handler.Handle(ctx, ratecycle.BuildCommand("R1", StudentID, 5, fakeClock))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, ratecycle.BuildCommand("R2", OtherStudentID, 2, fakeClock))
	require.NoError(t, err)

	// assert
	cycle := core.ProjectCycle(QueryEventsOfType(t, ctx, es, core.CycleRatedEventType), CycleID)
	assert.Equal(t, 2, cycle.TotalRatings)
	assert.InDelta(t, 3.5, cycle.AverageRating(), 0.001)
}

func Test_CommandHandler_Handle_Error_RentalNotFound(t *testing.T) {
	handler := ratecycle.NewCommandHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), ratecycle.BuildCommand("R404", StudentID, 5, fakeClock))

	assert.ErrorIs(t, err, core.ErrRentalNotFound)
}

func Test_CommandHandler_Handle_Error_InvalidCommand(t *testing.T) {
	handler := ratecycle.NewCommandHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), ratecycle.BuildCommand("", StudentID, 5, fakeClock))

	assert.ErrorIs(t, err, shell.ErrInvalidCommand)
}
