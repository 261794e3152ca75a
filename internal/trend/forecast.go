package trend

import "fmt"

// ForecastPoint is one predicted value of one target at a future period index.
type ForecastPoint struct {
	Category    string    `csv:"category" json:"category" yaml:"category"`
	Target      string    `csv:"target" json:"target" yaml:"target"`
	PeriodIndex int       `csv:"period_index" json:"period_index" yaml:"period_index"`
	Value       float64   `csv:"value" json:"value" yaml:"value"`
	Model       ModelType `csv:"model" json:"model" yaml:"model"`
}

// Forecast evaluates every chosen model of the bundle at period indices
// from, from+1, ..., from+horizon-1.
func Forecast(b CategoryBundle, from, horizon int) ([]ForecastPoint, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("forecast horizon must not be negative, got %d", horizon)
	}
	var points []ForecastPoint
	for _, target := range b.Targets() {
		mf, err := b.Model(target).ToModelFunction()
		if err != nil {
			return nil, fmt.Errorf("forecasting %s/%s: %w", b.Category, target, err)
		}
		for i := 0; i < horizon; i++ {
			idx := from + i
			points = append(points, ForecastPoint{
				Category:    b.Category,
				Target:      string(target),
				PeriodIndex: idx,
				Value:       mf.Evaluate(float64(idx)),
				Model:       mf.Type,
			})
		}
	}
	return points, nil
}

// ForecastAll runs Forecast over every bundle, keeping bundle order.
func ForecastAll(bundles []CategoryBundle, from, horizon int) ([]ForecastPoint, error) {
	var all []ForecastPoint
	for _, b := range bundles {
		points, err := Forecast(b, from, horizon)
		if err != nil {
			return nil, err
		}
		all = append(all, points...)
	}
	return all, nil
}
