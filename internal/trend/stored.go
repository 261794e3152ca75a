package trend

import (
	"fmt"
	"sort"
)

// StoredModel is the portable form of a chosen model: its type and parameter vector are
// enough to rebuild the evaluable function.
type StoredModel struct {
	Type       ModelType `json:"type" yaml:"type"`
	Parameters []float64 `json:"parameters" yaml:"parameters,flow"`
	Equation   string    `json:"equation,omitempty" yaml:"equation,omitempty"`
}

// StoredBundle is the portable form of a CategoryBundle.
type StoredBundle struct {
	Category string                     `json:"category" yaml:"category"`
	Models   map[TargetKind]StoredModel `json:"models" yaml:"models"`
}

// ToStored converts a bundle into its portable form.
func ToStored(b CategoryBundle) StoredBundle {
	sb := StoredBundle{Category: b.Category, Models: make(map[TargetKind]StoredModel)}
	for _, t := range b.Targets() {
		m := b.Model(t)
		sb.Models[t] = StoredModel{Type: m.Type(), Parameters: m.Parameters(), Equation: m.Equation()}
	}
	return sb
}

// ToStoredAll converts bundles keeping their order.
func ToStoredAll(bundles []CategoryBundle) []StoredBundle {
	out := make([]StoredBundle, len(bundles))
	for i, b := range bundles {
		out[i] = ToStored(b)
	}
	return out
}

// Restore rebuilds the evaluable bundle.
func (sb StoredBundle) Restore() (CategoryBundle, error) {
	chosen := make(map[TargetKind]*Model, len(sb.Models))
	targets := make([]TargetKind, 0, len(sb.Models))
	for t := range sb.Models {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	for _, t := range targets {
		if _, err := ParseTargetKind(string(t)); err != nil {
			return CategoryBundle{}, fmt.Errorf("restoring %q: %w", sb.Category, err)
		}
		stored := sb.Models[t]
		m, err := NewModelFromParameters(stored.Type, stored.Parameters)
		if err != nil {
			return CategoryBundle{}, fmt.Errorf("restoring %q/%s: %w", sb.Category, t, err)
		}
		chosen[t] = m
	}
	return NewCategoryBundle(sb.Category, chosen), nil
}

// RestoreAll rebuilds every stored bundle.
func RestoreAll(stored []StoredBundle) ([]CategoryBundle, error) {
	out := make([]CategoryBundle, 0, len(stored))
	for _, sb := range stored {
		b, err := sb.Restore()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
