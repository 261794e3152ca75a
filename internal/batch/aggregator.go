// Package batch merges period input files and runs the fit pipeline over them.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/trendfit/internal/common"
	"fjacquet/trendfit/internal/fileutils"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/models"
	"fjacquet/trendfit/internal/validation"
)

// Aggregator combines entries from several CSV files into one period table.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// ExpandInputs resolves each input into CSV files. Directories contribute the .csv files
// directly inside them, matched case-insensitively; files are taken as given. The result
// is sorted and deduplicated.
func (a *Aggregator) ExpandInputs(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, input := range inputs {
		if err := validation.IsValidPath(input); err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		if !fileutils.DirectoryExists(input) {
			add(filepath.Clean(input))
			continue
		}
		matches, err := fileutils.ListFilesWithExtension(input, ".csv")
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", input, err)
		}
		for _, m := range matches {
			add(filepath.Clean(m))
		}
	}

	sort.Strings(files)
	return files, nil
}

// AggregateFiles reads every file and merges the entries. A file that fails to load
// aborts the merge.
func (a *Aggregator) AggregateFiles(files []string) (models.PeriodTable, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	var all []models.PeriodEntry
	var sourceFiles []string
	for _, file := range files {
		rows, err := common.ReadCSVFile[models.PeriodEntryRow](file, a.logger)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
		entries, err := models.EntriesFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
		a.logger.Debug("Loaded entries from file",
			logging.F(logging.FieldCount, len(entries)),
			logging.F(logging.FieldInputFile, filepath.Base(file)))
		all = append(all, entries...)
		sourceFiles = append(sourceFiles, filepath.Base(file))
	}

	table, err := models.GroupByPeriod(all)
	if err != nil {
		return nil, err
	}
	a.detectAndLogDuplicates(table)

	a.logger.Info("Aggregated period entries",
		logging.F(logging.FieldCount, len(all)),
		logging.F("periods", len(table)),
		logging.F("source_files", strings.Join(sourceFiles, ", ")))
	return table, nil
}

// detectAndLogDuplicates warns about categories recorded more than once in a period.
// The duplicates are kept; coordinate extraction sums them.
func (a *Aggregator) detectAndLogDuplicates(table models.PeriodTable) int {
	periods := make([]string, 0, len(table))
	for p := range table {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	duplicateCount := 0
	for _, period := range periods {
		counts := make(map[string]int)
		for _, e := range table[period] {
			counts[e.Category]++
		}
		for _, e := range table[period] {
			if counts[e.Category] > 1 {
				duplicateCount++
				a.logger.Warn("Category recorded more than once in period, values will be summed",
					logging.F(logging.FieldCategory, e.Category),
					logging.F("period", period),
					logging.F(logging.FieldCount, counts[e.Category]))
				counts[e.Category] = 0
			}
		}
	}
	return duplicateCount
}
