package trend

import (
	"fjacquet/trendfit/internal/fiterror"
	"fjacquet/trendfit/internal/logging"
)

// CandidateTable maps each target to its candidate models in discovery order.
type CandidateTable map[TargetKind][]*Model

// Count returns the total number of candidates across targets.
func (t CandidateTable) Count() int {
	n := 0
	for _, c := range t {
		n += len(c)
	}
	return n
}

// DriverOptions tune which families the driver attempts.
type DriverOptions struct {
	// PolynomialDegree is the degree of the POLYNOMIAL candidate.
	PolynomialDegree int
	// ConstantShortCircuit stops a target whose own series is constant from receiving
	// anything but the CONSTANT candidate.
	ConstantShortCircuit bool
	// IndependentExponentialChecks tests y, z and w separately instead of stopping at the
	// first exponential-like series.
	IndependentExponentialChecks bool
	// Exponential holds the exponential-likeness thresholds.
	Exponential ExponentialDetector
}

// DefaultDriverOptions returns the standard driver configuration.
func DefaultDriverOptions() DriverOptions {
	return DriverOptions{
		PolynomialDegree:     DefaultPolynomialDegree,
		ConstantShortCircuit: true,
		Exponential:          DefaultExponentialDetector(),
	}
}

// Driver fits the applicable model families for one category.
type Driver struct {
	opts   DriverOptions
	logger logging.Logger
}

// NewDriver creates a Driver.
func NewDriver(opts DriverOptions, logger logging.Logger) *Driver {
	if opts.PolynomialDegree < 1 {
		opts.PolynomialDegree = DefaultPolynomialDegree
	}
	if opts.Exponential.MinPoints == 0 {
		opts.Exponential = DefaultExponentialDetector()
	}
	return &Driver{opts: opts, logger: logger}
}

// FitCandidates fits every applicable family to y (SPENDING), z (LEFT_OVER) and
// w (GOALS_MET) against x. Arrays of different lengths are rejected before anything is fit.
func (d *Driver) FitCandidates(x, y, z, w []float64) (CandidateTable, error) {
	n := len(x)
	if len(y) != n || len(z) != n || len(w) != n {
		return nil, &fiterror.InvalidCoordinateLengthError{X: len(x), Y: len(y), Z: len(z), W: len(w)}
	}

	series := map[TargetKind][]float64{
		TargetSpending: y,
		TargetLeftOver: z,
		TargetGoalsMet: w,
	}
	table := make(CandidateTable)

	if IsConstant(y) || IsConstant(z) || IsConstant(w) {
		for _, target := range FittedTargets {
			d.add(table, target, NewConstant(), x, series[target])
		}
	}

	if n >= 2 && (HasVariation(y) || HasVariation(z) || HasVariation(w)) {
		for _, target := range d.open(series) {
			d.add(table, target, NewLinear(), x, series[target])
		}
	}

	if n >= 3 {
		for _, target := range d.open(series) {
			d.add(table, target, NewQuadratic(), x, series[target])
		}
	}

	if n >= 4 {
		if n < d.opts.PolynomialDegree+1 {
			d.logger.Debug("Skipping polynomial fit, too few points for degree",
				logging.F(logging.FieldPoints, n),
				logging.F("degree", d.opts.PolynomialDegree))
		} else {
			for _, target := range d.open(series) {
				d.add(table, target, NewPolynomial(d.opts.PolynomialDegree), x, series[target])
			}
		}
	}

	if n >= 5 {
		d.addExponential(table, x, series)
	}

	return table, nil
}

// addExponential adds at most one exponential candidate (first of y, z, w that looks
// exponential) unless independent checks are enabled.
func (d *Driver) addExponential(table CandidateTable, x []float64, series map[TargetKind][]float64) {
	for _, target := range FittedTargets {
		if d.skip(series[target]) || !d.opts.Exponential.IsExponentialLike(series[target]) {
			continue
		}
		d.add(table, target, NewExponential(), x, series[target])
		if !d.opts.IndependentExponentialChecks {
			return
		}
	}
}

// open returns the targets still accepting non-constant candidates.
func (d *Driver) open(series map[TargetKind][]float64) []TargetKind {
	out := make([]TargetKind, 0, len(FittedTargets))
	for _, target := range FittedTargets {
		if !d.skip(series[target]) {
			out = append(out, target)
		}
	}
	return out
}

func (d *Driver) skip(values []float64) bool {
	return d.opts.ConstantShortCircuit && IsConstant(values)
}

func (d *Driver) add(table CandidateTable, target TargetKind, m *Model, x, values []float64) {
	if err := m.Fit(x, values); err != nil {
		d.logger.WithError(err).Warn("Fit failed, candidate dropped",
			logging.F(logging.FieldTarget, target),
			logging.F(logging.FieldModelType, m.Type()))
		return
	}
	table[target] = append(table[target], m)
}
