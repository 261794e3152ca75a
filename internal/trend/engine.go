package trend

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"fjacquet/trendfit/internal/fiterror"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/models"

	"github.com/shopspring/decimal"
)

// sequentialThreshold is the category count below which BuildBundles skips the pool.
const sequentialThreshold = 8

// Options configure an Engine.
type Options struct {
	Driver   DriverOptions
	Selector SelectorOptions
	// Workers bounds the number of categories fit in parallel.
	Workers int
	// GoalPerPeriod is the savings goal used to derive goal progress.
	GoalPerPeriod decimal.Decimal
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		Driver:   DefaultDriverOptions(),
		Selector: DefaultSelectorOptions(),
		Workers:  runtime.NumCPU(),
	}
}

// Engine runs extraction, fitting and selection for every category of a period table.
// It holds no per-run state, so one Engine can serve concurrent callers.
type Engine struct {
	opts   Options
	logger logging.Logger
	driver *Driver
}

// NewEngine creates an Engine.
func NewEngine(opts Options, logger logging.Logger) *Engine {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{
		opts:   opts,
		logger: logger,
		driver: NewDriver(opts.Driver, logger),
	}
}

// Candidates runs the driver over one category's coordinates.
func (e *Engine) Candidates(c Coordinates) (CandidateTable, error) {
	table, err := e.driver.FitCandidates(c.X, c.Y, c.Z, c.W)
	if err != nil {
		var lengthErr *fiterror.InvalidCoordinateLengthError
		if errors.As(err, &lengthErr) {
			lengthErr.Category = c.Category
		}
		return nil, err
	}
	return table, nil
}

// FitCategory fits and selects the models of one category. It returns nil without an
// error when the driver produced no candidates at all.
func (e *Engine) FitCategory(c Coordinates) (*CategoryBundle, error) {
	log := e.logger.WithField(logging.FieldCategory, c.Category)

	table, err := e.Candidates(c)
	if err != nil {
		return nil, err
	}
	if table.Count() == 0 {
		log.Info("No candidate models, category skipped", logging.F(logging.FieldPoints, c.Len()))
		return nil, nil
	}

	chosen, err := NewSelector(e.opts.Selector, log).Select(table)
	if err != nil {
		return nil, fmt.Errorf("selecting models for %q: %w", c.Category, err)
	}

	bundle := NewCategoryBundle(c.Category, chosen)
	log.Debug("Category fitted",
		logging.F(logging.FieldCount, table.Count()),
		logging.F("targets", len(bundle.Targets())))
	return &bundle, nil
}

// BuildBundles fits every category of the table and returns bundles sorted by category.
// The first failing category (in name order) aborts the run.
func (e *Engine) BuildBundles(ctx context.Context, table models.PeriodTable) ([]CategoryBundle, error) {
	start := time.Now()

	coords, err := ExtractCoordinates(table, e.opts.GoalPerPeriod)
	if err != nil {
		return nil, fmt.Errorf("extracting coordinates: %w", err)
	}

	names := make([]string, 0, len(coords))
	for name := range coords {
		names = append(names, name)
	}
	sort.Strings(names)

	results := e.process(ctx, names, coords)

	var bundles []CategoryBundle
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.bundle != nil {
			bundles = append(bundles, *r.bundle)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortBundles(bundles)

	e.logger.Info("Built category bundles",
		logging.F(logging.FieldCount, len(bundles)),
		logging.F("categories", len(names)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return bundles, nil
}

// categoryResult keeps a bundle at its category's position.
type categoryResult struct {
	index  int
	bundle *CategoryBundle
	err    error
}

func (e *Engine) process(ctx context.Context, names []string, coords map[string]Coordinates) []categoryResult {
	if len(names) < sequentialThreshold || e.opts.Workers == 1 {
		return e.processSequential(ctx, names, coords)
	}
	return e.processConcurrent(ctx, names, coords)
}

func (e *Engine) processSequential(ctx context.Context, names []string, coords map[string]Coordinates) []categoryResult {
	results := make([]categoryResult, len(names))
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		b, err := e.FitCategory(coords[name])
		results[i] = categoryResult{index: i, bundle: b, err: err}
	}
	return results
}

func (e *Engine) processConcurrent(ctx context.Context, names []string, coords map[string]Coordinates) []categoryResult {
	workers := e.opts.Workers
	if workers > len(names) {
		workers = len(names)
	}

	jobs := make(chan int, workers)
	resultChan := make(chan categoryResult, len(names))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case i, ok := <-jobs:
					if !ok {
						return
					}
					b, err := e.FitCategory(coords[names[i]])
					resultChan <- categoryResult{index: i, bundle: b, err: err}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range names {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]categoryResult, len(names))
	for r := range resultChan {
		results[r.index] = r
	}

	e.logger.Debug("Concurrent fitting completed",
		logging.F(logging.FieldCount, len(names)),
		logging.F(logging.FieldWorkers, workers))
	return results
}
