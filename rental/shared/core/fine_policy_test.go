package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

func Test_FinePolicy_Calculate_DefaultPolicy(t *testing.T) {
	policy := core.DefaultFinePolicy()

	testCases := []struct {
		name      string
		requested int
		elapsed   int
		expected  int
	}{
		{name: "returned early", requested: 60, elapsed: 30, expected: 0},
		{name: "returned exactly in time", requested: 60, elapsed: 60, expected: 0},
		{name: "one minute late", requested: 60, elapsed: 61, expected: 10},
		{name: "one full block late", requested: 60, elapsed: 75, expected: 10},
		{name: "half an hour late", requested: 60, elapsed: 90, expected: 20},
		{name: "two hours late", requested: 60, elapsed: 180, expected: 80},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, policy.Calculate(tc.requested, tc.elapsed))
		})
	}
}

func Test_FinePolicy_Calculate_IsMonotonic(t *testing.T) {
	policies := []core.FinePolicy{
		core.DefaultFinePolicy(),
		{GraceMinutes: 5, BlockMinutes: 10, RatePerBlock: 7, MaxFine: 0},
		{GraceMinutes: 0, BlockMinutes: 1, RatePerBlock: 1, MaxFine: 100},
	}

	for _, policy := range policies {
		previous := 0

		for elapsed := 0; elapsed <= 600; elapsed++ {
			fine := policy.Calculate(60, elapsed)

			assert.GreaterOrEqual(t, fine, previous, "fine must not decrease, policy %+v elapsed %d", policy, elapsed)

			if elapsed <= 60 {
				assert.Zero(t, fine, "fine must be zero within the requested duration")
			}

			previous = fine
		}
	}
}

func Test_FinePolicy_Calculate_RespectsGraceAndCap(t *testing.T) {
	// arrange
	policy := core.FinePolicy{GraceMinutes: 10, BlockMinutes: 15, RatePerBlock: 10, MaxFine: 30}

	// act & assert
	assert.Zero(t, policy.Calculate(60, 70), "within grace")
	assert.Equal(t, 10, policy.Calculate(60, 71))
	assert.Equal(t, 30, policy.Calculate(60, 1000), "capped")
}

func Test_FinePolicy_Calculate_WithoutRate(t *testing.T) {
	policy := core.FinePolicy{BlockMinutes: 15}

	assert.Zero(t, policy.Calculate(10, 500))
}
