package trend

import (
	"errors"
	"math"
	"testing"

	"fjacquet/trendfit/internal/fiterror"
	"fjacquet/trendfit/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustModel(t *testing.T, kind ModelType, params ...float64) *Model {
	t.Helper()
	m, err := NewModelFromParameters(kind, params)
	require.NoError(t, err)
	return m
}

func TestParameterCount(t *testing.T) {
	assert.Equal(t, 0, ParameterCount(ModelConstant))
	assert.Equal(t, 2, ParameterCount(ModelLinear))
	assert.Equal(t, 3, ParameterCount(ModelQuadratic))
	assert.Equal(t, 4, ParameterCount(ModelPolynomial))
	assert.Equal(t, 2, ParameterCount(ModelExponential))
	assert.Equal(t, 0, ParameterCount(ModelType("SPLINE")))
}

func TestCalculateRSquared(t *testing.T) {
	x := seq(0, 4)
	y := []float64{1, 3, 5, 7, 9}

	perfect := mustModel(t, ModelLinear, 2, 1)
	r2, err := CalculateRSquared(perfect, x, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)

	mean := mustModel(t, ModelConstant, 5)
	r2, err = CalculateRSquared(mean, x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, r2, 1e-12)

	r2, err = CalculateRSquared(perfect, x, []float64{4, 4, 4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r2, "no variance scores zero")

	_, err = CalculateRSquared(perfect, x, y[:3])
	var lengthErr *fiterror.InvalidCoordinateLengthError
	assert.True(t, errors.As(err, &lengthErr))

	_, err = CalculateRSquared(NewLinear(), x, y)
	var unfit *fiterror.UnfitModelError
	assert.True(t, errors.As(err, &unfit))
}

func TestAdjustedRSquared(t *testing.T) {
	assert.InDelta(t, 18.0, AdjustedRSquared(-33, 2, 3), 1e-12)
	assert.InDelta(t, 0.55, AdjustedRSquared(0.75, 10, 4), 1e-12)
	assert.True(t, math.IsInf(AdjustedRSquared(0.5, 3, 2), -1))
	assert.True(t, math.IsNaN(AdjustedRSquared(1, 3, 2)))
}

func TestSelector_SingleCandidateWins(t *testing.T) {
	s := NewSelector(DefaultSelectorOptions(), logging.NewMockLogger())
	only := mustModel(t, ModelConstant, 500)

	chosen, err := s.Select(CandidateTable{TargetSpending: {only}})
	require.NoError(t, err)
	assert.Same(t, only, chosen[TargetSpending])
	assert.NotContains(t, chosen, TargetLeftOver)
}

func TestSelector_PicksBestAdjacentPair(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewSelector(DefaultSelectorOptions(), logger)

	linear := mustModel(t, ModelLinear, 2, 1)
	quadratic := mustModel(t, ModelQuadratic, 1, 2, 3)
	poly := mustModel(t, ModelPolynomial, 0.5, 1, 2, 3)
	exp := mustModel(t, ModelExponential, 1, 0.1)

	// Scores: linear→quadratic 18, quadratic→polynomial ~332, polynomial→exponential ~-384.
	best, err := s.SelectTarget(TargetSpending, []*Model{linear, quadratic, poly, exp})
	require.NoError(t, err)
	assert.Same(t, quadratic, best)

	warnings := logger.GetEntriesByLevel("WARN")
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, "Candidate likely overfit", w.Message)
		target, ok := w.FieldValue(logging.FieldTarget)
		require.True(t, ok)
		assert.Equal(t, TargetSpending, target)
	}
	assert.True(t, logger.HasEntry("DEBUG", "Selected model"))
}

func TestSelector_BorderlineScoreIsInfo(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewSelector(SelectorOptions{OverfitThreshold: 20, BorderlineThreshold: 10}, logger)

	linear := mustModel(t, ModelLinear, 2, 1)
	quadratic := mustModel(t, ModelQuadratic, 1, 2, 3)

	best, err := s.SelectTarget(TargetLeftOver, []*Model{linear, quadratic})
	require.NoError(t, err)
	assert.Same(t, linear, best, "the last candidate is only ever compared against")
	assert.True(t, logger.HasEntry("INFO", "Candidate borderline overfit"))
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestSelector_NaNComparisonsSelectNothing(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewSelector(DefaultSelectorOptions(), logger)

	broken := mustModel(t, ModelExponential, math.NaN(), math.NaN())
	linear := mustModel(t, ModelLinear, 1, 0)

	chosen, err := s.Select(CandidateTable{TargetGoalsMet: {broken, linear}})
	require.NoError(t, err)
	assert.NotContains(t, chosen, TargetGoalsMet)
	assert.True(t, logger.HasEntry("DEBUG", "Comparison produced no score"))
}

func TestSelector_InvalidCandidate(t *testing.T) {
	s := NewSelector(DefaultSelectorOptions(), logging.NewMockLogger())
	linear := mustModel(t, ModelLinear, 1, 0)

	_, err := s.Select(CandidateTable{TargetSpending: {linear, nil}})
	var invalid *fiterror.InvalidModelError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "SPENDING", invalid.Target)
	assert.Equal(t, 1, invalid.Index)
	assert.Equal(t, "<nil>", invalid.Candidates[1])

	_, err = s.SelectTarget(TargetSpending, []*Model{NewQuadratic(), linear})
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, invalid.Index)
}

func TestSelector_EmptyTable(t *testing.T) {
	s := NewSelector(DefaultSelectorOptions(), logging.NewMockLogger())
	chosen, err := s.Select(CandidateTable{})
	require.NoError(t, err)
	assert.Empty(t, chosen)
}
