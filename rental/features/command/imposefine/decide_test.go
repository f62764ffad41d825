package imposefine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/imposefine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

var fakeClock = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func Test_Decide_Success(t *testing.T) {
	result := imposefine.Decide(core.DomainEvents{}, imposefine.BuildCommand(StudentID, 150, "damage", fakeClock))

	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	assert.Equal(t, core.BuildFineAccrued(StudentID, "", 150, "damage", fakeClock), result.Events[0])
}

func Test_Decide_Error_InvalidFineAmount(t *testing.T) {
	for _, amount := range []int{0, -10} {
		result := imposefine.Decide(core.DomainEvents{}, imposefine.BuildCommand(StudentID, amount, "damage", fakeClock))

		assert.ErrorIs(t, result.HasError(), core.ErrInvalidFineAmount)
		assert.Empty(t, result.Events)
	}
}
