package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/trend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	var body strings.Builder
	for p, v := range []int{10, 20, 40, 80, 160, 320} {
		fmt.Fprintf(&body, "%d,Hobbies,400,%d\n", p+1, v)
		fmt.Fprintf(&body, "%d,Rent,500,500\n", p+1)
	}
	writeCSV(t, dir, "budget.csv", body.String())

	logger := logging.NewMockLogger()
	mock := &store.MockBundleStore{}
	runner := NewRunner(trend.NewEngine(trend.DefaultOptions(), logger), mock, logger)

	result, err := runner.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, result.Bundles, 2)
	assert.Equal(t, "Hobbies", result.Bundles[0].Category)
	assert.Equal(t, trend.ModelConstant, result.Bundles[1].Spending.Type())

	saved := mock.SavedRuns()
	require.Len(t, saved, 1)
	assert.Equal(t, result.Run.ID, saved[0].ID)
	assert.Len(t, saved[0].Bundles, 2)
	assert.True(t, logger.HasEntry("INFO", "Fit run completed"))
}

func TestRunner_Run_StoreFailure(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "budget.csv", "1,Rent,500,500\n")

	logger := logging.NewMockLogger()
	mock := &store.MockBundleStore{SaveError: errors.New("disk full")}
	runner := NewRunner(trend.NewEngine(trend.DefaultOptions(), logger), mock, logger)

	_, err := runner.Run(context.Background(), []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunner_Run_NilStore(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "budget.csv", "1,Rent,500,500\n")

	logger := logging.NewMockLogger()
	runner := NewRunner(trend.NewEngine(trend.DefaultOptions(), logger), nil, logger)
	result, err := runner.Run(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Len(t, result.Bundles, 1)
}
