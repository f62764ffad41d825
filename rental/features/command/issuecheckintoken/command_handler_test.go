package issuecheckintoken_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckintoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := issuecheckintoken.NewCommandHandler(es)

	// arrange
	rentalID := GivenUniqueID(t)
	GivenEventsWereAppended(t, ctx, es, givenActiveRental(t, rentalID)...)
	tokenID, err := shell.NewTokenID()
	require.NoError(t, err)

	// act
	result, handleErr := handler.Handle(ctx, issuecheckintoken.BuildCommand(tokenID, StudentID, fakeClock))

	// assert
	require.NoError(t, handleErr)
	assert.False(t, result.Idempotent)

	issued := QueryEventsOfType(t, ctx, es, core.CheckinTokenIssuedEventType)
	require.Len(t, issued, 1)
	assert.Equal(t, rentalID, issued[0].(core.CheckinTokenIssued).RentalID)
	assert.Equal(t, tokenID, issued[0].(core.CheckinTokenIssued).TokenID)
}

func Test_CommandHandler_Handle_Idempotent_WhenRetried(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := issuecheckintoken.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenActiveRental(t, GivenUniqueID(t))...)
	command := issuecheckintoken.BuildCommand("T9", StudentID, fakeClock)
	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, retryErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, retryErr)
	assert.True(t, result.Idempotent)
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.CheckinTokenIssuedEventType), 1)
}

func Test_CommandHandler_Handle_Error_NoActiveRental(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := issuecheckintoken.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(
		t,
		ctx,
		es,
		FixtureCycleCheckedOut("R1", CycleID, StudentID, fakeClock.Add(-2*time.Hour)),
		FixtureCycleCheckedIn("R1", CycleID, StudentID, fakeClock.Add(-time.Hour)),
	)

	// act
	_, err := handler.Handle(ctx, issuecheckintoken.BuildCommand("T9", StudentID, fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrNoActiveRental)
	assert.Empty(t, QueryEventsOfType(t, ctx, es, core.CheckinTokenIssuedEventType))
	assert.Len(t, QueryEventsOfType(t, ctx, es, core.CheckinTokenIssuingFailedEventType), 1)
}

func Test_CommandHandler_Handle_Error_InvalidCommand(t *testing.T) {
	handler := issuecheckintoken.NewCommandHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), issuecheckintoken.BuildCommand("T9", "", fakeClock))

	assert.ErrorIs(t, err, shell.ErrInvalidCommand)
}
