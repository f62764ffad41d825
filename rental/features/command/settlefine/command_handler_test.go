package settlefine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/settlefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

func Test_CommandHandler_Handle_SettlesOncePerReference(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := settlefine.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenBalance(t, 600)...)

	// act
	first, err := handler.Handle(ctx, settlefine.BuildCommand(StudentID, 200, "PAY-1", fakeClock))
	require.NoError(t, err)

	second, retryErr := handler.Handle(ctx, settlefine.BuildCommand(StudentID, 200, "PAY-1", fakeClock))
	require.NoError(t, retryErr)

	// assert
	assert.False(t, first.Idempotent)
	assert.True(t, second.Idempotent)

	account := core.ProjectFineAccount(QueryEventsOfType(t, ctx, es, core.FineAccruedEventType, core.FineSettledEventType), StudentID)
	assert.Equal(t, 400, account.Balance())
	assert.False(t, account.IsBlocked())
}

func Test_CommandHandler_Handle_Error_AboveBalance(t *testing.T) {
	// setup
	ctx := context.Background()
	es := GivenMemoryEventStore(t)
	handler := settlefine.NewCommandHandler(es)

	// arrange
	GivenEventsWereAppended(t, ctx, es, givenBalance(t, 20)...)

	// act
	_, err := handler.Handle(ctx, settlefine.BuildCommand(StudentID, 30, "PAY-1", fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidFineAmount)
	assert.Empty(t, QueryEventsOfType(t, ctx, es, core.FineSettledEventType))
}

func Test_CommandHandler_Handle_Error_InvalidCommand(t *testing.T) {
	handler := settlefine.NewCommandHandler(GivenMemoryEventStore(t))

	_, err := handler.Handle(context.Background(), settlefine.BuildCommand(StudentID, 10, "", fakeClock))

	assert.ErrorIs(t, err, shell.ErrInvalidCommand)
}
