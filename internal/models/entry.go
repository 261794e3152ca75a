// Package models holds the input records consumed by the trend engine.
package models

import (
	"fmt"
	"strings"

	"fjacquet/trendfit/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// PeriodEntry is one category's budget line for one period.
type PeriodEntry struct {
	Period   string          `csv:"period" json:"period" yaml:"period"`
	Category string          `csv:"category" json:"category" yaml:"category"`
	Budgeted decimal.Decimal `csv:"budgeted" json:"budgeted" yaml:"budgeted"`
	Actual   decimal.Decimal `csv:"actual" json:"actual" yaml:"actual"`
}

// Saved is the amount left over: budgeted minus actual.
func (e PeriodEntry) Saved() decimal.Decimal {
	return e.Budgeted.Sub(e.Actual)
}

// GoalProgress expresses Saved as a fraction of the per-period savings goal.
// A non-positive goal leaves the raw saved amount unchanged.
func (e PeriodEntry) GoalProgress(goalPerPeriod decimal.Decimal) decimal.Decimal {
	saved := e.Saved()
	if !goalPerPeriod.IsPositive() {
		return saved
	}
	return saved.Div(goalPerPeriod)
}

// Validate checks the fields required for fitting.
func (e PeriodEntry) Validate() error {
	if strings.TrimSpace(e.Period) == "" {
		return fmt.Errorf("entry for category %q has no period", e.Category)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("entry for period %q has no category", e.Period)
	}
	return nil
}

// PeriodEntryRow is the raw CSV form of a PeriodEntry. Amounts stay text until
// ToEntry so exports with currency marks or locale separators load unchanged.
type PeriodEntryRow struct {
	Period   string `csv:"period"`
	Category string `csv:"category"`
	Budgeted string `csv:"budgeted"`
	Actual   string `csv:"actual"`
}

// ToEntry parses the amounts of the row.
func (r PeriodEntryRow) ToEntry() (PeriodEntry, error) {
	budgeted, err := currencyutils.ParseAmount(r.Budgeted)
	if err != nil {
		return PeriodEntry{}, fmt.Errorf("budgeted: %w", err)
	}
	actual, err := currencyutils.ParseAmount(r.Actual)
	if err != nil {
		return PeriodEntry{}, fmt.Errorf("actual: %w", err)
	}
	return PeriodEntry{Period: r.Period, Category: r.Category, Budgeted: budgeted, Actual: actual}, nil
}

// EntriesFromRows converts CSV rows, naming the 1-based row of the first bad amount.
func EntriesFromRows(rows []PeriodEntryRow) ([]PeriodEntry, error) {
	entries := make([]PeriodEntry, 0, len(rows))
	for i, r := range rows {
		e, err := r.ToEntry()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// PeriodTable maps a period identifier to the category entries recorded in it.
type PeriodTable map[string][]PeriodEntry

// GroupByPeriod builds a PeriodTable from flat rows, trimming identifiers.
// Rows failing Validate are rejected with the row number in the error.
func GroupByPeriod(entries []PeriodEntry) (PeriodTable, error) {
	table := make(PeriodTable)
	for i, e := range entries {
		e.Period = strings.TrimSpace(e.Period)
		e.Category = strings.TrimSpace(e.Category)
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		table[e.Period] = append(table[e.Period], e)
	}
	return table, nil
}

// Categories returns every distinct category name in the table.
func (t PeriodTable) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, entries := range t {
		for _, e := range entries {
			if _, ok := seen[e.Category]; ok {
				continue
			}
			seen[e.Category] = struct{}{}
			out = append(out, e.Category)
		}
	}
	return out
}
