package trend

import (
	"fmt"
	"math"

	"fjacquet/trendfit/internal/fiterror"
	"fjacquet/trendfit/internal/logging"

	"gonum.org/v1/gonum/stat"
)

// ParameterCount is the parameter count the selector uses for the overfitting penalty.
// Unrecognised types, CONSTANT included, count as 0.
func ParameterCount(t ModelType) int {
	switch t {
	case ModelLinear, ModelExponential:
		return 2
	case ModelQuadratic:
		return 3
	case ModelPolynomial:
		return 4
	}
	return 0
}

// CalculateRSquared scores m against real observations: 1 - SS_res/SS_tot.
// A series with SS_tot == 0 scores exactly 0.
func CalculateRSquared(m *Model, x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, &fiterror.InvalidCoordinateLengthError{X: len(x), Y: len(y), Z: len(y), W: len(y)}
	}
	fn, err := m.Function()
	if err != nil {
		return 0, err
	}
	return rSquared(fn, x, y), nil
}

// rSquared compares fn(x[i]) with y[i] over the common prefix of x and y.
func rSquared(fn func(float64) float64, x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n == 0 {
		return 0
	}
	obs := y[:n]
	mean := stat.Mean(obs, nil)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		diff := obs[i] - fn(x[i])
		ssRes += diff * diff
		dev := obs[i] - mean
		ssTot += dev * dev
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// AdjustedRSquared applies the overfitting penalty 1 - ((1-R²)(n-1))/(n-p-1).
// A zero denominator follows IEEE division (±Inf or NaN).
func AdjustedRSquared(r2 float64, n, p int) float64 {
	return 1 - ((1-r2)*float64(n-1))/float64(n-p-1)
}

// SelectorOptions hold the score thresholds that trigger log notices.
type SelectorOptions struct {
	OverfitThreshold    float64
	BorderlineThreshold float64
}

// DefaultSelectorOptions returns the standard 0.9 / 0.8 thresholds.
func DefaultSelectorOptions() SelectorOptions {
	return SelectorOptions{OverfitThreshold: 0.9, BorderlineThreshold: 0.8}
}

// Selector reduces each candidate list to one model.
type Selector struct {
	opts   SelectorOptions
	logger logging.Logger
}

// NewSelector creates a Selector.
func NewSelector(opts SelectorOptions, logger logging.Logger) *Selector {
	return &Selector{opts: opts, logger: logger}
}

// Select picks one model per target with candidates. Targets whose comparisons never
// produce a usable score are absent from the result.
func (s *Selector) Select(table CandidateTable) (map[TargetKind]*Model, error) {
	chosen := make(map[TargetKind]*Model)
	for _, target := range AllTargets {
		candidates, ok := table[target]
		if !ok || len(candidates) == 0 {
			continue
		}
		m, err := s.SelectTarget(target, candidates)
		if err != nil {
			return nil, err
		}
		if m != nil {
			chosen[target] = m
		}
	}
	return chosen, nil
}

// SelectTarget walks adjacent (current, next) candidate pairs. Each pair is scored by
// evaluating current's function over current's own parameter vector against next's
// parameter vector, adjusted with n = ParameterCount(current) and p = ParameterCount(next).
// The current model of the best-scoring pair wins. High scores are logged, not rejected.
func (s *Selector) SelectTarget(target TargetKind, candidates []*Model) (*Model, error) {
	for i, m := range candidates {
		if m == nil || !m.IsFit() {
			names := make([]string, len(candidates))
			for j, c := range candidates {
				names[j] = c.String()
			}
			return nil, &fiterror.InvalidModelError{Target: string(target), Index: i, Candidates: names}
		}
	}

	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return candidates[0], nil
	}

	log := s.logger.WithField(logging.FieldTarget, target)
	var best *Model
	bestScore := math.Inf(-1)

	for i := 0; i < len(candidates)-1; i++ {
		current, next := candidates[i], candidates[i+1]
		n, p := ParameterCount(current.Type()), ParameterCount(next.Type())

		fn, err := current.Function()
		if err != nil {
			return nil, fmt.Errorf("selecting %s model %d: %w", target, i, err)
		}
		r2 := rSquared(fn, current.params, next.params)
		score := AdjustedRSquared(r2, n, p)

		fields := []logging.Field{
			logging.F(logging.FieldIndex, i),
			logging.F(logging.FieldModelType, current.Type()),
			logging.F(logging.FieldRSquared, r2),
			logging.F(logging.FieldScore, score),
		}
		if math.IsNaN(score) {
			log.Debug("Comparison produced no score", fields...)
			continue
		}

		if score > s.opts.OverfitThreshold {
			log.Warn("Candidate likely overfit", fields...)
		} else if score > s.opts.BorderlineThreshold {
			log.Info("Candidate borderline overfit", fields...)
		}

		if best == nil || score > bestScore {
			best, bestScore = current, score
		}
	}

	if best != nil {
		log.Debug("Selected model",
			logging.F(logging.FieldModelType, best.Type()),
			logging.F(logging.FieldScore, bestScore))
	}
	return best, nil
}
