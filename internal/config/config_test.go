package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TRENDFIT_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("TRENDFIT_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TRENDFIT_TEST_MISSING_VALUE", "fallback"))
}

func TestGoalPerPeriod(t *testing.T) {
	c := validConfig()
	assert.True(t, c.GoalPerPeriod().IsZero())

	c.Fit.GoalPerPeriod = 80
	assert.Equal(t, "80", c.GoalPerPeriod().String())
}
