package trend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fjacquet/trendfit/internal/dateutils"
	"fjacquet/trendfit/internal/fiterror"
	"fjacquet/trendfit/internal/models"

	"github.com/shopspring/decimal"
)

// TargetKind names the derived series a model is fit to.
type TargetKind string

const (
	TargetSpending TargetKind = "SPENDING"
	TargetLeftOver TargetKind = "LEFT_OVER"
	TargetGoalsMet TargetKind = "GOALS_MET"
	// TargetBudgeted is carried in bundles but never populated by the fitting driver.
	TargetBudgeted TargetKind = "BUDGETED"
)

// FittedTargets are the targets the driver produces candidates for, in y/z/w order.
var FittedTargets = []TargetKind{TargetSpending, TargetLeftOver, TargetGoalsMet}

// AllTargets includes TargetBudgeted.
var AllTargets = []TargetKind{TargetSpending, TargetLeftOver, TargetGoalsMet, TargetBudgeted}

// ParseTargetKind parses a target name, case-insensitively.
func ParseTargetKind(s string) (TargetKind, error) {
	t := TargetKind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllTargets {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", fiterror.ErrUnknownTarget, s)
}

// EntryValue looks up the figure an entry contributes to a target series.
func EntryValue(e models.PeriodEntry, target TargetKind, goalPerPeriod decimal.Decimal) (decimal.Decimal, error) {
	switch target {
	case TargetSpending:
		return e.Actual, nil
	case TargetLeftOver:
		return e.Saved(), nil
	case TargetGoalsMet:
		return e.GoalProgress(goalPerPeriod), nil
	case TargetBudgeted:
		return e.Budgeted, nil
	}
	return decimal.Zero, &fiterror.InvalidModelTypeError{Type: string(target), Operation: "entry totals"}
}

// Coordinates are the parallel arrays fit for one category: X is the period index,
// Y spending, Z leftover and W goal progress.
type Coordinates struct {
	Category string
	Periods  []string
	X        []float64
	Y        []float64
	Z        []float64
	W        []float64
}

// Len is the number of observations.
func (c Coordinates) Len() int { return len(c.X) }

// Series returns the dependent array for a fitted target.
func (c Coordinates) Series(target TargetKind) []float64 {
	switch target {
	case TargetSpending:
		return c.Y
	case TargetLeftOver:
		return c.Z
	case TargetGoalsMet:
		return c.W
	}
	return nil
}

// OrderPeriods sorts period identifiers numerically when every one is an integer,
// chronologically when every one is a date label ("2025-03", "31.01.2025", "Mar 2025")
// and lexically otherwise (ISO weeks sort correctly as text).
func OrderPeriods(periods []string) []string {
	out := append([]string(nil), periods...)
	if nums, ok := parseIntegers(out); ok {
		sort.SliceStable(out, func(i, j int) bool { return nums[out[i]] < nums[out[j]] })
		return out
	}
	if dates, ok := dateutils.ParsePeriods(out); ok {
		sort.SliceStable(out, func(i, j int) bool {
			if dates[out[i]].Equal(dates[out[j]]) {
				return out[i] < out[j]
			}
			return dates[out[i]].Before(dates[out[j]])
		})
		return out
	}
	sort.Strings(out)
	return out
}

func parseIntegers(periods []string) (map[string]int64, bool) {
	nums := make(map[string]int64, len(periods))
	for _, p := range periods {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, false
		}
		nums[p] = n
	}
	return nums, true
}

// ExtractCoordinates turns a period table into one Coordinates value per category.
//
// X is the 0-based ordinal of the period among all periods in the table, so a category
// missing from some periods keeps its spacing. Several entries for the same category in
// one period are summed before conversion to float64.
func ExtractCoordinates(table models.PeriodTable, goalPerPeriod decimal.Decimal) (map[string]Coordinates, error) {
	periods := make([]string, 0, len(table))
	for p := range table {
		periods = append(periods, p)
	}
	periods = OrderPeriods(periods)

	out := make(map[string]Coordinates)
	for idx, period := range periods {
		totals := make(map[string][]decimal.Decimal)
		var order []string
		for _, e := range table[period] {
			sums, ok := totals[e.Category]
			if !ok {
				sums = []decimal.Decimal{decimal.Zero, decimal.Zero, decimal.Zero}
				order = append(order, e.Category)
			}
			for i, target := range FittedTargets {
				v, err := EntryValue(e, target, goalPerPeriod)
				if err != nil {
					return nil, err
				}
				sums[i] = sums[i].Add(v)
			}
			totals[e.Category] = sums
		}

		for _, category := range order {
			sums := totals[category]
			c := out[category]
			c.Category = category
			c.Periods = append(c.Periods, period)
			c.X = append(c.X, float64(idx))
			c.Y = append(c.Y, sums[0].InexactFloat64())
			c.Z = append(c.Z, sums[1].InexactFloat64())
			c.W = append(c.W, sums[2].InexactFloat64())
			out[category] = c
		}
	}
	return out, nil
}
