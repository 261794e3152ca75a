package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// IsConstant reports whether every adjacent pair of values is exactly equal.
// An empty series is not constant: there is nothing to fit.
func IsConstant(values []float64) bool {
	if len(values) == 0 {
		return false
	}
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			return false
		}
	}
	return true
}

// HasVariation reports whether any adjacent pair differs in absolute value. It is a
// "some change exists" probe, not a global monotonicity test; it gates the linear fit.
func HasVariation(values []float64) bool {
	for i := 1; i < len(values); i++ {
		prev, cur := math.Abs(values[i-1]), math.Abs(values[i])
		if cur > prev || cur < prev {
			return true
		}
	}
	return false
}

// ExponentialDetector decides whether a series looks like constant-ratio growth.
type ExponentialDetector struct {
	// MinPoints is the minimum series length considered.
	MinPoints int
	// MinPositiveRatio is the share of strictly positive values required.
	MinPositiveRatio float64
	// MaxCoefficientOfVariation bounds stddev/|mean| of the consecutive log differences.
	MaxCoefficientOfVariation float64
}

// meanEpsilon is the |mean| below which the coefficient of variation is infeasible.
const meanEpsilon = 1e-10

// DefaultExponentialDetector returns the detector with the standard thresholds.
func DefaultExponentialDetector() ExponentialDetector {
	return ExponentialDetector{
		MinPoints:                 5,
		MinPositiveRatio:          0.8,
		MaxCoefficientOfVariation: 0.6,
	}
}

// IsExponentialLike applies DefaultExponentialDetector.
func IsExponentialLike(values []float64) bool {
	return DefaultExponentialDetector().IsExponentialLike(values)
}

// IsExponentialLike reports whether the log differences between positive neighbours are
// steady enough to suggest y = a*e^(bx).
func (d ExponentialDetector) IsExponentialLike(values []float64) bool {
	if len(values) < d.MinPoints || len(values) == 0 {
		return false
	}

	positive := 0
	for _, v := range values {
		if v > 0 {
			positive++
		}
	}
	if float64(positive)/float64(len(values)) < d.MinPositiveRatio {
		return false
	}

	diffs := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 && values[i] > 0 {
			diffs = append(diffs, math.Log(values[i])-math.Log(values[i-1]))
		}
	}
	if len(diffs) < 2 {
		return false
	}

	mean, std := stat.MeanStdDev(diffs, nil)
	if math.Abs(mean) < meanEpsilon {
		return false
	}
	return std/math.Abs(mean) <= d.MaxCoefficientOfVariation
}
