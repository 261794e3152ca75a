package trend

import "sort"

// CategoryBundle holds the chosen model per target for one category.
type CategoryBundle struct {
	Category string
	Spending *Model
	LeftOver *Model
	GoalsMet *Model
	Budgeted *Model
}

// NewCategoryBundle assembles a bundle from the selector's output. Targets without a
// model stay nil.
func NewCategoryBundle(category string, chosen map[TargetKind]*Model) CategoryBundle {
	return CategoryBundle{
		Category: category,
		Spending: chosen[TargetSpending],
		LeftOver: chosen[TargetLeftOver],
		GoalsMet: chosen[TargetGoalsMet],
		Budgeted: chosen[TargetBudgeted],
	}
}

// Model returns the chosen model for target, or nil.
func (b CategoryBundle) Model(target TargetKind) *Model {
	switch target {
	case TargetSpending:
		return b.Spending
	case TargetLeftOver:
		return b.LeftOver
	case TargetGoalsMet:
		return b.GoalsMet
	case TargetBudgeted:
		return b.Budgeted
	}
	return nil
}

// Targets lists the targets that carry a model, in AllTargets order.
func (b CategoryBundle) Targets() []TargetKind {
	var out []TargetKind
	for _, t := range AllTargets {
		if b.Model(t) != nil {
			out = append(out, t)
		}
	}
	return out
}

// IsEmpty reports whether no target carries a model.
func (b CategoryBundle) IsEmpty() bool {
	return len(b.Targets()) == 0
}

func sortBundles(bundles []CategoryBundle) {
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Category < bundles[j].Category })
}
