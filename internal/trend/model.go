// Package trend fits candidate curves to per-category budget series and picks one model
// per target series. Everything here is pure computation over in-memory slices: no I/O,
// no shared state between calls.
package trend

import (
	"fmt"
	"math"
	"strings"

	"fjacquet/trendfit/internal/fiterror"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ModelType discriminates the closed set of model shapes.
type ModelType string

const (
	ModelConstant    ModelType = "CONSTANT"
	ModelLinear      ModelType = "LINEAR"
	ModelQuadratic   ModelType = "QUADRATIC"
	ModelPolynomial  ModelType = "POLYNOMIAL"
	ModelExponential ModelType = "EXPONENTIAL"
)

// DefaultPolynomialDegree is the degree used when a polynomial model is built without one.
const DefaultPolynomialDegree = 3

// ModelTypes lists every model type in discovery order.
var ModelTypes = []ModelType{ModelConstant, ModelLinear, ModelQuadratic, ModelPolynomial, ModelExponential}

// ParseModelType parses a model type name, case-insensitively.
func ParseModelType(s string) (ModelType, error) {
	t := ModelType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ModelTypes {
		if t == known {
			return t, nil
		}
	}
	return "", &fiterror.InvalidModelTypeError{Type: s, Operation: "parse model type"}
}

// Model is one fittable univariate function. The zero value is not usable; build models
// with NewConstant, NewLinear, NewQuadratic, NewPolynomial or NewExponential.
//
// A Model is either unfit (no parameters, Evaluate fails) or fit, in which case params
// holds the vector the evaluation switch reads. Re-fitting replaces the vector.
type Model struct {
	kind   ModelType
	degree int
	params []float64
}

func NewConstant() *Model    { return &Model{kind: ModelConstant} }
func NewLinear() *Model      { return &Model{kind: ModelLinear, degree: 1} }
func NewQuadratic() *Model   { return &Model{kind: ModelQuadratic, degree: 2} }
func NewExponential() *Model { return &Model{kind: ModelExponential} }

// NewPolynomial returns an unfit polynomial of the given degree. Degrees below 1 fall
// back to DefaultPolynomialDegree.
func NewPolynomial(degree int) *Model {
	if degree < 1 {
		degree = DefaultPolynomialDegree
	}
	return &Model{kind: ModelPolynomial, degree: degree}
}

// NewModelFromParameters rebuilds a fit model from a stored type and parameter vector.
// Polynomial degree is implied by the vector length.
func NewModelFromParameters(t ModelType, params []float64) (*Model, error) {
	var m *Model
	want := 0
	switch t {
	case ModelConstant:
		m, want = NewConstant(), 1
	case ModelLinear:
		m, want = NewLinear(), 2
	case ModelQuadratic:
		m, want = NewQuadratic(), 3
	case ModelExponential:
		m, want = NewExponential(), 2
	case ModelPolynomial:
		if len(params) < 2 {
			return nil, fmt.Errorf("%w: %s needs at least 2 parameters, got %d",
				fiterror.ErrParameterCount, t, len(params))
		}
		m, want = NewPolynomial(len(params)-1), len(params)
	default:
		return nil, &fiterror.InvalidModelTypeError{Type: string(t), Operation: "rebuild model"}
	}
	if len(params) != want {
		return nil, fmt.Errorf("%w: %s needs %d parameters, got %d",
			fiterror.ErrParameterCount, t, want, len(params))
	}
	m.params = append([]float64(nil), params...)
	return m, nil
}

// Type returns the model's discriminator.
func (m *Model) Type() ModelType { return m.kind }

// Degree returns the polynomial degree (0 for constant and exponential models).
func (m *Model) Degree() int { return m.degree }

// IsFit reports whether the model holds parameters.
func (m *Model) IsFit() bool { return m.params != nil }

// Fit estimates the parameters from the observations (x[i], y[i]).
//
// Constant ignores x. Exponential regresses ln(y) on x and yields non-finite parameters
// when y has non-positive values; screen with IsExponentialLike first.
func (m *Model) Fit(x, y []float64) error {
	if len(y) == 0 {
		return &fiterror.FitError{Type: string(m.kind), Err: fiterror.ErrInsufficientPoints}
	}
	if m.kind != ModelConstant && len(x) != len(y) {
		return &fiterror.FitError{
			Type: string(m.kind),
			Err:  fmt.Errorf("x has %d values, y has %d", len(x), len(y)),
		}
	}

	var params []float64
	switch m.kind {
	case ModelConstant:
		params = []float64{stat.Mean(y, nil)}
	case ModelLinear:
		intercept, slope := stat.LinearRegression(x, y, nil, false)
		params = []float64{slope, intercept}
	case ModelQuadratic, ModelPolynomial:
		coef, err := polyFit(x, y, m.degree)
		if err != nil {
			return &fiterror.FitError{Type: string(m.kind), Err: err}
		}
		params = coef
	case ModelExponential:
		logY := make([]float64, len(y))
		for i, v := range y {
			logY[i] = math.Log(v)
		}
		intercept, slope := stat.LinearRegression(x, logY, nil, false)
		params = []float64{math.Exp(intercept), slope}
	default:
		return &fiterror.InvalidModelTypeError{Type: string(m.kind), Operation: "fit"}
	}

	m.params = params
	return nil
}

// polyFit solves the least-squares Vandermonde system for coefficients ordered highest
// degree first. Every observation carries unit weight.
func polyFit(x, y []float64, degree int) ([]float64, error) {
	rows, cols := len(x), degree+1
	a := mat.NewDense(rows, cols, nil)
	for i, xi := range x {
		v := 1.0
		for j := degree; j >= 0; j-- {
			a.Set(i, j, v)
			v *= xi
		}
	}
	b := mat.NewVecDense(rows, append([]float64(nil), y...))

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return nil, err
	}
	out := make([]float64, cols)
	for j := range out {
		out[j] = coef.AtVec(j)
	}
	return out, nil
}

// Evaluate returns the model value at x.
func (m *Model) Evaluate(x float64) (float64, error) {
	if !m.IsFit() {
		return 0, &fiterror.UnfitModelError{Type: string(m.kind)}
	}
	return evaluate(m.kind, m.params, x), nil
}

// evaluate is the single switch over the model tag.
func evaluate(kind ModelType, p []float64, x float64) float64 {
	if len(p) == 0 {
		return math.NaN()
	}
	switch kind {
	case ModelConstant:
		return p[0]
	case ModelLinear:
		return p[0]*x + p[1]
	case ModelQuadratic, ModelPolynomial:
		// Horner over highest-first coefficients.
		acc := 0.0
		for _, c := range p {
			acc = acc*x + c
		}
		return acc
	case ModelExponential:
		return p[0] * math.Exp(p[1]*x)
	}
	return math.NaN()
}

// Parameters returns a copy of the parameter vector, or nil when unfit.
func (m *Model) Parameters() []float64 {
	if !m.IsFit() {
		return nil
	}
	return append([]float64(nil), m.params...)
}

// Function returns the fitted function as a closure over a private parameter copy.
func (m *Model) Function() (func(float64) float64, error) {
	if !m.IsFit() {
		return nil, &fiterror.UnfitModelError{Type: string(m.kind)}
	}
	kind, params := m.kind, m.Parameters()
	return func(x float64) float64 { return evaluate(kind, params, x) }, nil
}

// ToModelFunction packages the fitted model for downstream evaluation.
func (m *Model) ToModelFunction() (ModelFunction, error) {
	fn, err := m.Function()
	if err != nil {
		return ModelFunction{}, err
	}
	return ModelFunction{Type: m.kind, Parameters: m.Parameters(), fn: fn}, nil
}

// Equation renders the fitted model with 3 decimals, e.g. "y = 500.000".
func (m *Model) Equation() string {
	if !m.IsFit() {
		return fmt.Sprintf("y = <unfit %s>", strings.ToLower(string(m.kind)))
	}
	switch m.kind {
	case ModelConstant:
		return fmt.Sprintf("y = %.3f", m.params[0])
	case ModelExponential:
		return fmt.Sprintf("y = %.3f * e^(%.3fx)", m.params[0], m.params[1])
	default:
		return "y = " + polynomialTerms(m.params)
	}
}

func polynomialTerms(coef []float64) string {
	var sb strings.Builder
	degree := len(coef) - 1
	for i, c := range coef {
		power := degree - i
		if i == 0 {
			if c < 0 {
				sb.WriteString("-")
			}
		} else if c < 0 {
			sb.WriteString(" - ")
		} else {
			sb.WriteString(" + ")
		}
		sb.WriteString(fmt.Sprintf("%.3f", math.Abs(c)))
		switch power {
		case 0:
		case 1:
			sb.WriteString("x")
		default:
			sb.WriteString(fmt.Sprintf("x^%d", power))
		}
	}
	return sb.String()
}

func (m *Model) String() string {
	if m == nil {
		return "<nil>"
	}
	if m.kind == ModelPolynomial {
		return fmt.Sprintf("%s(%d){%s}", m.kind, m.degree, m.Equation())
	}
	return fmt.Sprintf("%s{%s}", m.kind, m.Equation())
}

// ModelFunction carries a model type, its parameters and the callable built from them.
type ModelFunction struct {
	Type       ModelType
	Parameters []float64
	fn         func(float64) float64
}

// Evaluate calls the wrapped function. A ModelFunction decoded without its callable is
// rebuilt from Type and Parameters.
func (f ModelFunction) Evaluate(x float64) float64 {
	if f.fn != nil {
		return f.fn(x)
	}
	return evaluate(f.Type, f.Parameters, x)
}
