package trend

import (
	"context"
	"fmt"
	"math"
	"testing"

	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableFrom(entries ...models.PeriodEntry) models.PeriodTable {
	table := make(models.PeriodTable)
	for _, e := range entries {
		table[e.Period] = append(table[e.Period], e)
	}
	return table
}

func TestEngine_FlatCategoryGetsConstantModels(t *testing.T) {
	logger := logging.NewMockLogger()
	engine := NewEngine(DefaultOptions(), logger)

	var entries []models.PeriodEntry
	for p := 1; p <= 4; p++ {
		entries = append(entries, pe(fmt.Sprint(p), "Rent", 500, 500))
	}

	bundles, err := engine.BuildBundles(context.Background(), tableFrom(entries...))
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	rent := bundles[0]
	assert.Equal(t, "Rent", rent.Category)
	require.NotNil(t, rent.Spending)
	assert.Equal(t, ModelConstant, rent.Spending.Type())
	assert.Equal(t, []float64{500}, rent.Spending.Parameters())
	require.NotNil(t, rent.LeftOver)
	assert.Equal(t, []float64{0}, rent.LeftOver.Parameters())
	assert.Nil(t, rent.Budgeted)
	assert.True(t, logger.HasEntry("INFO", "Built category bundles"))
}

func TestEngine_GrowingCategoryOffersExponential(t *testing.T) {
	engine := NewEngine(DefaultOptions(), logging.NewMockLogger())
	spending := []float64{10, 20, 40, 80, 160, 320}

	var entries []models.PeriodEntry
	for i, v := range spending {
		entries = append(entries, pe(fmt.Sprint(i+1), "Hobbies", 400, v))
	}
	coords, err := ExtractCoordinates(tableFrom(entries...), decimal.Zero)
	require.NoError(t, err)

	table, err := engine.Candidates(coords["Hobbies"])
	require.NoError(t, err)

	var exp *Model
	for _, m := range table[TargetSpending] {
		if m.Type() == ModelExponential {
			exp = m
		}
	}
	require.NotNil(t, exp)
	assert.InDelta(t, 10, exp.Parameters()[0], 1e-9)
	assert.InDelta(t, math.Ln2, exp.Parameters()[1], 1e-12)

	bundle, err := engine.FitCategory(coords["Hobbies"])
	require.NoError(t, err)
	require.NotNil(t, bundle)
	require.NotNil(t, bundle.Spending)
	assert.NotEqual(t, ModelExponential, bundle.Spending.Type())
}

func TestEngine_CategoryWithoutCandidatesIsSkipped(t *testing.T) {
	logger := logging.NewMockLogger()
	engine := NewEngine(DefaultOptions(), logger)

	bundle, err := engine.FitCategory(Coordinates{Category: "Ghost"})
	require.NoError(t, err)
	assert.Nil(t, bundle)

	entries := logger.GetEntriesByLevel("INFO")
	require.Len(t, entries, 1)
	assert.Equal(t, "No candidate models, category skipped", entries[0].Message)
	category, _ := entries[0].FieldValue(logging.FieldCategory)
	assert.Equal(t, "Ghost", category)
}

func TestEngine_LengthErrorNamesCategory(t *testing.T) {
	engine := NewEngine(DefaultOptions(), logging.NewMockLogger())
	_, err := engine.Candidates(Coordinates{
		Category: "Food",
		X:        seq(0, 2),
		Y:        []float64{1, 2},
		Z:        []float64{1, 2, 3},
		W:        []float64{1, 2, 3},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Food"`)
}

func manyCategories(n, periods int) models.PeriodTable {
	var entries []models.PeriodEntry
	for c := 0; c < n; c++ {
		name := fmt.Sprintf("cat-%02d", c)
		for p := 0; p < periods; p++ {
			actual := float64(100 + c*7 + p*(c%5+1)*3)
			entries = append(entries, pe(fmt.Sprint(p+1), name, 1000, actual))
		}
	}
	return tableFrom(entries...)
}

func TestEngine_ConcurrentMatchesSequential(t *testing.T) {
	table := manyCategories(20, 6)

	seqOpts := DefaultOptions()
	seqOpts.Workers = 1
	sequential, err := NewEngine(seqOpts, logging.NewMockLogger()).BuildBundles(context.Background(), table)
	require.NoError(t, err)

	parOpts := DefaultOptions()
	parOpts.Workers = 4
	logger := logging.NewMockLogger()
	concurrent, err := NewEngine(parOpts, logger).BuildBundles(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, concurrent, 20)
	assert.Equal(t, ToStoredAll(sequential), ToStoredAll(concurrent))
	assert.Equal(t, "cat-00", concurrent[0].Category)
	assert.Equal(t, "cat-19", concurrent[19].Category)
	assert.True(t, logger.HasEntry("DEBUG", "Concurrent fitting completed"))
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		opts := DefaultOptions()
		opts.Workers = workers
		bundles, err := NewEngine(opts, logging.NewMockLogger()).BuildBundles(ctx, manyCategories(10, 5))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, bundles)
	}
}

func TestNewEngine_ClampsWorkers(t *testing.T) {
	opts := DefaultOptions()
	opts.Workers = 0
	engine := NewEngine(opts, logging.NewMockLogger())
	assert.Equal(t, 1, engine.opts.Workers)
}
