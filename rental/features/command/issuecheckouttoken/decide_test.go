package issuecheckouttoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/features/command/issuecheckouttoken"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	. "github.com/AntonStoeckl/cyclerental-dcb-go/testutil/eventstore/estesthelpers" //nolint:revive
)

var (
	fakeClock     = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	activeGuard   = core.BuildActor(GuardID, core.RoleGuard, core.ActorActive)
	activeStudent = core.BuildActor(StudentID, core.RoleStudent, core.ActorActive)
)

func givenCommand(t *testing.T) issuecheckouttoken.Command {
	t.Helper()

	return issuecheckouttoken.BuildCommand("T1", GuardID, StudentID, CycleID, DefaultDuration, DefaultLocation, fakeClock)
}

func givenAvailableCycle(t *testing.T) core.DomainEvents {
	t.Helper()

	return core.DomainEvents{core.BuildCycleRegistered(CycleID, fakeClock.Add(-time.Hour))}
}

func assertRejectedWith(t *testing.T, result core.DecisionResult, expected error) {
	t.Helper()

	assert.ErrorIs(t, result.HasError(), expected)
	require.Len(t, result.Events, 1)

	failure, ok := result.Events[0].(core.CheckoutTokenIssuingFailed)
	require.True(t, ok, "expected a CheckoutTokenIssuingFailed event")
	assert.Equal(t, CycleID, failure.CycleID)
	assert.Equal(t, expected.Error(), failure.FailureInfo)
	assert.True(t, failure.IsErrorEvent())
}

func Test_Decide_Success_WhenAllPreconditionsMet(t *testing.T) {
	// arrange
	command := givenCommand(t)

	// act
	result := issuecheckouttoken.Decide(givenAvailableCycle(t), command, activeGuard, activeStudent)

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	issued, ok := result.Events[0].(core.CheckoutTokenIssued)
	require.True(t, ok)
	assert.Equal(t, "T1", issued.TokenID)
	assert.Equal(t, GuardID, issued.GuardID)
	assert.Equal(t, DefaultDuration, issued.DurationMinutes)
	assert.Equal(t, DefaultLocation, issued.Location)
	assert.Equal(t, fakeClock.Add(30*time.Second), issued.ExpiresAt)
}

func Test_Decide_Idempotent_WhenTokenWasAlreadyIssued(t *testing.T) {
	// arrange
	history := append(givenAvailableCycle(t), FixtureCheckoutTokenIssued("T1", CycleID, StudentID, fakeClock))

	// act
	result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Error_InvalidRentalRequest(t *testing.T) {
	invalid := map[string]issuecheckouttoken.Command{
		"zero duration":     issuecheckouttoken.BuildCommand("T1", GuardID, StudentID, CycleID, 0, DefaultLocation, fakeClock),
		"negative duration": issuecheckouttoken.BuildCommand("T1", GuardID, StudentID, CycleID, -5, DefaultLocation, fakeClock),
		"blank location":    issuecheckouttoken.BuildCommand("T1", GuardID, StudentID, CycleID, 30, "  ", fakeClock),
	}

	for name, command := range invalid {
		t.Run(name, func(t *testing.T) {
			result := issuecheckouttoken.Decide(givenAvailableCycle(t), command, activeGuard, activeStudent)

			assertRejectedWith(t, result, core.ErrInvalidRentalRequest)
		})
	}
}

func Test_Decide_Error_InvalidActor(t *testing.T) {
	cases := map[string]struct {
		guard   core.Actor
		student core.Actor
	}{
		"unknown guard":        {core.Actor{}, activeStudent},
		"disabled guard":       {core.BuildActor(GuardID, core.RoleGuard, core.ActorDisabled), activeStudent},
		"student acting guard": {core.BuildActor(GuardID, core.RoleStudent, core.ActorActive), activeStudent},
		"unknown student":      {activeGuard, core.Actor{}},
		"disabled student":     {activeGuard, core.BuildActor(StudentID, core.RoleStudent, core.ActorDisabled)},
		"guard as student":     {activeGuard, core.BuildActor(StudentID, core.RoleGuard, core.ActorActive)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			result := issuecheckouttoken.Decide(givenAvailableCycle(t), givenCommand(t), tc.guard, tc.student)

			assertRejectedWith(t, result, core.ErrInvalidActor)
		})
	}
}

func Test_Decide_Error_FineLimitExceeded(t *testing.T) {
	// arrange
	history := append(
		givenAvailableCycle(t),
		core.BuildFineAccrued(StudentID, "", 600, "damage", fakeClock.Add(-time.Hour)),
	)

	// act
	result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

	// assert
	assertRejectedWith(t, result, core.ErrFineLimitExceeded)
}

func Test_Decide_Success_WhenBalanceIsExactlyAtTheLimit(t *testing.T) {
	// arrange
	history := append(
		givenAvailableCycle(t),
		core.BuildFineAccrued(StudentID, "", 700, "damage", fakeClock.Add(-2*time.Hour)),
		core.BuildFineSettled(StudentID, 200, "receipt-1", fakeClock.Add(-time.Hour)),
	)

	// act
	result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

	// assert
	assert.NoError(t, result.HasError())
}

func Test_Decide_Error_CycleUnavailable(t *testing.T) {
	cases := map[string]core.DomainEvents{
		"not registered": {},
		"rented": {
			core.BuildCycleRegistered(CycleID, fakeClock.Add(-time.Hour)),
			FixtureCycleCheckedOut("R1", CycleID, OtherStudentID, fakeClock.Add(-time.Minute)),
		},
		"under maintenance": {
			core.BuildCycleRegistered(CycleID, fakeClock.Add(-time.Hour)),
			core.BuildCycleStatusChanged(CycleID, core.CycleUnderMaintenance, "flat tire", fakeClock.Add(-time.Minute)),
		},
		"disabled": {
			core.BuildCycleRegistered(CycleID, fakeClock.Add(-time.Hour)),
			core.BuildCycleStatusChanged(CycleID, core.CycleDisabled, "stolen", fakeClock.Add(-time.Minute)),
		},
		"flagged for maintenance": {
			core.BuildCycleRegistered(CycleID, fakeClock.Add(-time.Hour)),
			core.BuildCycleFlaggedForMaintenance(CycleID, core.MaintenanceReasonHighUsage, fakeClock.Add(-time.Minute)),
		},
	}

	for name, history := range cases {
		t.Run(name, func(t *testing.T) {
			result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

			assertRejectedWith(t, result, core.ErrCycleUnavailable)
		})
	}
}

func Test_Decide_Error_DuplicateActiveRental(t *testing.T) {
	// arrange
	history := append(
		givenAvailableCycle(t),
		core.BuildCycleRegistered(OtherCycleID, fakeClock.Add(-time.Hour)),
		FixtureCycleCheckedOut("R1", OtherCycleID, StudentID, fakeClock.Add(-10*time.Minute)),
	)

	// act
	result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

	// assert
	assertRejectedWith(t, result, core.ErrDuplicateActiveRental)
}

func Test_Decide_Success_AfterPreviousRentalWasReturned(t *testing.T) {
	// arrange
	history := append(
		givenAvailableCycle(t),
		FixtureCycleCheckedOut("R1", CycleID, StudentID, fakeClock.Add(-2*time.Hour)),
		FixtureCycleCheckedIn("R1", CycleID, StudentID, fakeClock.Add(-time.Hour)),
	)

	// act
	result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

	// assert
	assert.NoError(t, result.HasError())
	assert.True(t, result.HasEventsToAppend())
}

func Test_Decide_Checks_Preconditions_In_Order(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildFineAccrued(StudentID, "", 900, "damage", fakeClock.Add(-time.Hour)),
	}

	// act
	result := issuecheckouttoken.Decide(history, givenCommand(t), activeGuard, activeStudent)

	// assert
	assertRejectedWith(t, result, core.ErrFineLimitExceeded)
}
