package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecast(t *testing.T) {
	b := CategoryBundle{
		Category: "Food",
		Spending: mustModel(t, ModelLinear, 2, 1),
		LeftOver: mustModel(t, ModelConstant, 5),
	}

	points, err := Forecast(b, 6, 2)
	require.NoError(t, err)
	require.Len(t, points, 4)

	assert.Equal(t, ForecastPoint{Category: "Food", Target: "SPENDING", PeriodIndex: 6, Value: 13, Model: ModelLinear}, points[0])
	assert.Equal(t, 15.0, points[1].Value)
	assert.Equal(t, 7, points[1].PeriodIndex)
	assert.Equal(t, "LEFT_OVER", points[2].Target)
	assert.Equal(t, 5.0, points[3].Value)
}

func TestForecast_Horizon(t *testing.T) {
	b := CategoryBundle{Category: "Food", Spending: mustModel(t, ModelConstant, 1)}

	points, err := Forecast(b, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, points)

	_, err = Forecast(b, 0, -1)
	assert.Error(t, err)
}

func TestForecastAll_KeepsBundleOrder(t *testing.T) {
	bundles := []CategoryBundle{
		{Category: "B", Spending: mustModel(t, ModelConstant, 2)},
		{Category: "A", Spending: mustModel(t, ModelConstant, 1)},
		{Category: "Empty"},
	}
	points, err := ForecastAll(bundles, 3, 1)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "B", points[0].Category)
	assert.Equal(t, "A", points[1].Category)
}
