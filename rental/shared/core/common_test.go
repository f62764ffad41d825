package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

func Test_ElapsedMinutes(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, core.ElapsedMinutes(start, start.Add(59*time.Second)))
	assert.Equal(t, 1, core.ElapsedMinutes(start, start.Add(time.Minute)))
	assert.Equal(t, 90, core.ElapsedMinutes(start, start.Add(90*time.Minute+59*time.Second)))
	assert.Equal(t, 0, core.ElapsedMinutes(start, start.Add(-time.Hour)), "clock skew must not produce negative minutes")
}

func Test_ExpiresAt_IsThirtySecondsAfterIssuance(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.FixedZone("CET", 3600))

	expiresAt := core.ExpiresAt(issuedAt)

	assert.Equal(t, time.UTC, expiresAt.Location())
	assert.Equal(t, core.ToOccurredAt(issuedAt).Add(30*time.Second), expiresAt)
}

func Test_Actor_IsActive(t *testing.T) {
	assert.True(t, core.BuildActor("g1", core.RoleGuard, core.ActorActive).IsActive(core.RoleGuard))
	assert.False(t, core.BuildActor("g1", core.RoleGuard, core.ActorActive).IsActive(core.RoleStudent), "role mismatch")
	assert.False(t, core.BuildActor("g1", core.RoleGuard, core.ActorDisabled).IsActive(core.RoleGuard), "disabled")
	assert.False(t, core.Actor{}.IsActive(core.RoleGuard), "unknown")
}
