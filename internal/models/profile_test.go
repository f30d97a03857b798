package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReputation(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 100},
		{1, 80},
		{2, 60},
		{3, 40},
		{4, 20},
		{5, 0},
		{6, 0},
		{100, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComputeReputation(tc.count), "count=%d", tc.count)
	}
}

func TestComputeReputationNeverNegative(t *testing.T) {
	for count := 0; count < 50; count++ {
		rep := ComputeReputation(count)
		assert.GreaterOrEqual(t, rep, 0)
		assert.LessOrEqual(t, rep, 100)
	}
}

func TestStandingForCount(t *testing.T) {
	assert.Equal(t, StandingGood, StandingForCount(0))
	assert.Equal(t, StandingWarned, StandingForCount(1))
	assert.Equal(t, StandingWarned, StandingForCount(4))
	assert.Equal(t, StandingBanned, StandingForCount(5))
	assert.Equal(t, StandingBanned, StandingForCount(9))
}

func TestBeforeSaveDerivesReputation(t *testing.T) {
	p := Profile{ReportCount: 3, Reputation: 100}
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, 40, p.Reputation)
	assert.False(t, p.IsBanned())
	assert.Equal(t, StandingWarned, p.Standing())
}

func TestIsServiceProvider(t *testing.T) {
	assert.True(t, OccupationPlumber.IsServiceProvider())
	assert.True(t, OccupationHVAC.IsServiceProvider())
	assert.False(t, OccupationTenant.IsServiceProvider())
	assert.False(t, Occupation("astronaut").IsServiceProvider())
}
