package redeemcheckintoken_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/redeemcheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

// conflictingEventStore reads from the wrapped store but every append loses against a concurrent writer.
type conflictingEventStore struct {
	shell.EventStore
	appends int
}

func (s *conflictingEventStore) Append(
	_ context.Context,
	_ eventstore.Filter,
	_ eventstore.MaxSequenceNumberUint,
	_ eventstore.StorableEvent,
	_ ...eventstore.StorableEvent,
) error {

	s.appends++

	return eventstore.ErrConcurrencyConflict
}

func Test_CommandHandler_Handle_Success_LateReturn(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := redeemcheckintoken.NewCommandHandler(es, GivenDirectory(t))

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRentalWithCheckinToken(t, 90)...)

	// act
	result, err := handler.Handle(ctx, redeemAfter(90, 5))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)

	checkedIn := QueryEventsOfType(t, ctx, es, core.CycleCheckedInEventType)
	require.Len(t, checkedIn, 1)
	assert.Equal(t, 20, checkedIn[0].(core.CycleCheckedIn).FineAmount)

	fines := QueryEventsOfType(t, ctx, es, core.FineAccruedEventType)
	require.Len(t, fines, 1)
	assert.Equal(t, 20, fines[0].(core.FineAccrued).Amount)
}

func Test_CommandHandler_Handle_Idempotent_NeverAccruesTheFineTwice(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := redeemcheckintoken.NewCommandHandler(es, GivenDirectory(t))

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRentalWithCheckinToken(t, 90)...)
	_, err := handler.Handle(ctx, redeemAfter(90, 5))
	require.NoError(t, err)

	// act
	result, retryErr := handler.Handle(ctx, redeemAfter(90, 10))

	// assert
	require.NoError(t, retryErr)
	assert.True(t, result.Idempotent)
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.CycleCheckedInEventType), 1)
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.FineAccruedEventType), 1)
}

func Test_CommandHandler_Handle_Race_TwoGuardsRedeemOneToken(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := redeemcheckintoken.NewCommandHandler(es, GivenDirectory(t))

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRentalWithCheckinToken(t, 90)...)
	redeemedAt := fakeClock.Add(90*time.Minute + 5*time.Second)
	commands := []redeemcheckintoken.Command{
		redeemcheckintoken.BuildCommand("T9", GuardID, ReturnLocation, redeemedAt),
		redeemcheckintoken.BuildCommand("T9", OtherGuardID, ReturnLocation, redeemedAt),
	}

	// act
	errs := make([]error, len(commands))
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i, command := range commands {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = handler.Handle(ctx, command)
		}()
	}

	close(start)
	wg.Wait()

	// assert
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}

		assert.ErrorIs(t, err, core.ErrInvalidOrExpiredToken)
	}

	assert.Equal(t, 1, successes)
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.CycleCheckedInEventType), 1)
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.FineAccruedEventType), 1)
}

func Test_CommandHandler_Handle_Error_DisabledGuard(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := redeemcheckintoken.NewCommandHandler(es, GivenDirectory(t))

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRentalWithCheckinToken(t, 45)...)
	command := redeemcheckintoken.BuildCommand("T9", DisabledGuardID, ReturnLocation, fakeClock.Add(45*time.Minute))

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidActor)
	assert.Empty(t, QueryEventsOfType(t, ctx, es, core.CycleCheckedInEventType))
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.CheckinTokenRedeemingFailedEventType), 1)
}

func Test_CommandHandler_Handle_Error_RetriesExhausted(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	conflicting := &conflictingEventStore{EventStore: es}
	handler := redeemcheckintoken.NewCommandHandler(
		conflicting,
		GivenDirectory(t),
		redeemcheckintoken.WithRetryOptions(shell.WithMaxAttempts(3), shell.WithBaseDelay(time.Millisecond)),
	)

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenRentalWithCheckinToken(t, 45)...)

	// act
	result, err := handler.Handle(ctx, redeemAfter(45, 5))

	// assert
	assert.ErrorIs(t, err, shell.ErrTemporarilyUnavailable)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.True(t, result.RetriesExhausted)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.Equal(t, 3, conflicting.appends)
}

func Test_CommandHandler_Handle_Error_InvalidCommand(t *testing.T) {
	handler := redeemcheckintoken.NewCommandHandler(GivenMemoryEventStore(t), GivenDirectory(t))

	_, err := handler.Handle(context.Background(), redeemcheckintoken.BuildCommand("", GuardID, ReturnLocation, fakeClock))

	assert.ErrorIs(t, err, shell.ErrInvalidCommand)
}

//nolint:funlen
func Test_RentalLifecycle_EndToEnd_LateReturn(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	directory := GivenDirectory(t)

	issueCheckout := issuecheckouttoken.NewCommandHandler(es, directory)
	redeemCheckout := redeemcheckouttoken.NewCommandHandler(es)
	issueCheckin := issuecheckintoken.NewCommandHandler(es)
	redeemCheckin := redeemcheckintoken.NewCommandHandler(es, directory)

	// arrange
	GivenEventsWereAppended(t, ctx, es, core.BuildCycleRegistered(CycleID, fakeClock.Add(-time.Hour)))
	t0 := fakeClock
	rentalID := GivenUniqueID(t)

	// act
	_, err := issueCheckout.Handle(
		ctx,
		issuecheckouttoken.BuildCommand("checkout-1", GuardID, StudentID, CycleID, 60, DefaultLocation, t0.Add(-10*time.Second)),
	)
	require.NoError(t, err)

	_, err = redeemCheckout.Handle(ctx, redeemcheckouttoken.BuildCommand("checkout-1", StudentID, rentalID, t0))
	require.NoError(t, err)

	_, err = issueCheckin.Handle(ctx, issuecheckintoken.BuildCommand("checkin-1", StudentID, t0.Add(90*time.Minute-10*time.Second)))
	require.NoError(t, err)

	_, err = redeemCheckin.Handle(ctx, redeemcheckintoken.BuildCommand("checkin-1", OtherGuardID, ReturnLocation, t0.Add(90*time.Minute)))
	require.NoError(t, err)

	// assert
	history := QueryEventsOfType(
		t,
		ctx,
		es,
		core.CycleRegisteredEventType,
		core.CycleCheckedOutEventType,
		core.CycleCheckedInEventType,
		core.FineAccruedEventType,
	)

	expectedFine := core.DefaultFinePolicy().Calculate(60, 90)
	assert.Equal(t, 20, expectedFine)

	cycle := core.ProjectCycle(history, CycleID)
	assert.True(t, cycle.IsAvailableForCheckout())
	assert.Equal(t, 1, cycle.TotalRentCount)

	account := core.ProjectFineAccount(history, StudentID)
	assert.Equal(t, expectedFine, account.Balance())
	assert.Equal(t, 90, account.RentedMinutes)

	rental, found := core.FindRental(history, rentalID)
	require.True(t, found)
	assert.True(t, rental.IsCompleted())
	assert.Equal(t, expectedFine, rental.FineAmount)
	assert.Equal(t, OtherGuardID, rental.ReturningGuardID)
}
