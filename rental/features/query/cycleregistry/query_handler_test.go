package cycleregistry_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/query/cycleregistry"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

var fakeClock = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func Test_QueryHandler_Handle_ReturnsTheRentedCycle(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := cycleregistry.NewQueryHandler(es)

	// arrange
	GivenEventsWereAppended(
		t,
		ctx,
		es,
		core.BuildCycleRegistered(CycleID, fakeClock.Add(-24*time.Hour)),
		FixtureCycleCheckedOut("R1", CycleID, StudentID, fakeClock.Add(-3*time.Hour)),
		FixtureCycleCheckedIn("R1", CycleID, StudentID, fakeClock.Add(-2*time.Hour)),
		core.BuildCycleRated("R1", CycleID, StudentID, 4, fakeClock.Add(-time.Hour)),
		FixtureCycleCheckedOut("R2", CycleID, OtherStudentID, fakeClock),
		core.BuildCycleRegistered(OtherCycleID, fakeClock),
	)

	// act
	cycle, err := handler.Handle(ctx, cycleregistry.BuildQuery(CycleID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.CycleRented, cycle.Status)
	assert.Equal(t, "R2", cycle.CurrentRentalID)
	assert.Equal(t, 2, cycle.TotalRentCount)
	assert.Equal(t, 1, cycle.TotalRatings)
	assert.InDelta(t, 4.0, cycle.AverageRating, 0.001)
	assert.False(t, cycle.NeedsMaintenance)
	assert.Equal(t, uint(5), cycle.GetSequenceNumber(), "the registration of the other cycle is not part of the projection")
}

func Test_QueryHandler_Handle_ShowsTheMaintenanceFlag(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := cycleregistry.NewQueryHandler(es)

	// arrange
	events := core.DomainEvents{core.BuildCycleRegistered(CycleID, fakeClock.Add(-24*time.Hour))}
	for i := range core.HighUsageRentCount {
		rentalID := "R" + strconv.Itoa(i)
		startedAt := fakeClock.Add(time.Duration(i-core.HighUsageRentCount) * time.Hour)
		events = append(
			events,
			FixtureCycleCheckedOut(rentalID, CycleID, StudentID, startedAt),
			FixtureCycleCheckedIn(rentalID, CycleID, StudentID, startedAt.Add(30*time.Minute)),
		)
	}
	events = append(events, core.BuildCycleFlaggedForMaintenance(CycleID, core.MaintenanceReasonHighUsage, fakeClock))
	GivenEventsWereAppended(t, ctx, es, events...)

	// act
	cycle, err := handler.Handle(ctx, cycleregistry.BuildQuery(CycleID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.CycleAvailable, cycle.Status)
	assert.True(t, cycle.NeedsMaintenance)
	assert.Equal(t, core.MaintenanceReasonHighUsage, cycle.MaintenanceReason)
	assert.Equal(t, core.HighUsageRentCount, cycle.RentsSinceService)
}

func Test_QueryHandler_Handle_Error_CycleNotRegistered(t *testing.T) {
	handler := cycleregistry.NewQueryHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), cycleregistry.BuildQuery("C404"))

	assert.ErrorIs(t, err, core.ErrCycleNotRegistered)
}
