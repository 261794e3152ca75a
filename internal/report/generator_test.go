package report

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/trend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRun() store.Run {
	return store.Run{
		ID:        "0f8e2a44-5b0c-4a7e-9c61-3d2f1e0a9b77",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:    "budget.csv",
		Bundles: []trend.StoredBundle{
			{
				Category: "Rent",
				Models: map[trend.TargetKind]trend.StoredModel{
					trend.TargetLeftOver: {Type: trend.ModelConstant, Parameters: []float64{0}, Equation: "y = 0.000"},
					trend.TargetSpending: {Type: trend.ModelConstant, Parameters: []float64{500}, Equation: "y = 500.000"},
				},
			},
			{
				Category: "Food",
				Models: map[trend.TargetKind]trend.StoredModel{
					trend.TargetSpending: {Type: trend.ModelLinear, Parameters: []float64{2, 1}, Equation: "y = 2.000x + 1.000"},
				},
			},
		},
	}
}

func TestFromRun(t *testing.T) {
	r := FromRun(sampleRun())
	require.Len(t, r.Categories, 2)
	assert.Equal(t, "Food", r.Categories[0].Category)
	rent := r.Categories[1]
	require.Len(t, rent.Models, 2)
	assert.Equal(t, trend.TargetSpending, rent.Models[0].Target)
	assert.Equal(t, trend.TargetLeftOver, rent.Models[1].Target)
}

func TestReportGenerator_GenerateReport_JSON(t *testing.T) {
	g := NewReportGenerator(logging.NewMockLogger())
	data, err := g.GenerateReport(FromRun(sampleRun()), FormatJSON)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "0f8e2a44-5b0c-4a7e-9c61-3d2f1e0a9b77", decoded.RunID)
	assert.Equal(t, []float64{2, 1}, decoded.Categories[0].Models[0].Parameters)
}

func TestReportGenerator_GenerateReport_YAML(t *testing.T) {
	g := NewReportGenerator(logging.NewMockLogger())
	data, err := g.GenerateReport(FromRun(sampleRun()), FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "parameters: [2, 1]")

	var decoded Report
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "budget.csv", decoded.Source)
	assert.Len(t, decoded.Categories, 2)
}

func TestReportGenerator_GenerateReport_Table(t *testing.T) {
	g := NewReportGenerator(logging.NewMockLogger())
	data, err := g.GenerateReport(FromRun(sampleRun()), FormatTable)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Run 0f8e2a44")
	assert.Contains(t, out, "y = 500.000")
	assert.Less(t, strings.Index(out, "Food"), strings.Index(out, "Rent"))

	data, err = g.GenerateReport(&Report{RunID: "x"}, FormatTable)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No fitted models.")
}

func TestReportGenerator_Errors(t *testing.T) {
	logger := logging.NewMockLogger()
	g := NewReportGenerator(logger)

	_, err := g.GenerateReport(FromRun(sampleRun()), "xml")
	assert.EqualError(t, err, "unsupported report format: xml")

	broken := &Report{Categories: []CategoryReport{{
		Category: "Odd",
		Models:   []ModelReport{{Target: trend.TargetSpending, Type: trend.ModelExponential, Parameters: []float64{math.NaN(), 1}}},
	}}}
	_, err = g.GenerateReport(broken, FormatJSON)
	assert.Error(t, err)
	assert.True(t, logger.HasEntry("ERROR", "Failed to marshal JSON report"))
}

func TestReportGenerator_GenerateForecast(t *testing.T) {
	g := NewReportGenerator(logging.NewMockLogger())
	points := []trend.ForecastPoint{{Category: "Food", Target: "SPENDING", PeriodIndex: 6, Value: 1234.5, Model: trend.ModelLinear}}

	data, err := g.GenerateForecast(points, FormatTable)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1,234.50")

	data, err = g.GenerateForecast(points, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"period_index": 6`)

	data, err = g.GenerateForecast(points, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model: LINEAR")

	_, err = g.GenerateForecast(points, "csv")
	assert.Error(t, err)
}

func TestReportGenerator_GenerateRunList(t *testing.T) {
	g := NewReportGenerator(logging.NewMockLogger())
	runs := []store.RunSummary{
		{ID: "0f8e2a44-5b0c-4a7e-9c61-3d2f1e0a9b77", CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Source: "budget.csv", Categories: 2},
	}

	data, err := g.GenerateRunList(runs, FormatJSON)
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "budget.csv", decoded[0]["source"])
	assert.Equal(t, float64(2), decoded[0]["categories"])

	data, err = g.GenerateRunList(runs, FormatTable)
	require.NoError(t, err)
	assert.Contains(t, string(data), "0f8e2a44")
	assert.Contains(t, string(data), "2026-03-01T12:00:00Z")

	data, err = g.GenerateRunList(nil, FormatTable)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No runs stored.")

	_, err = g.GenerateRunList(runs, "xml")
	assert.EqualError(t, err, "unsupported report format: xml")
}
