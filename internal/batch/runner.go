package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/trend"
)

// Runner loads inputs, fits every category and saves the run.
type Runner struct {
	aggregator *Aggregator
	engine     *trend.Engine
	store      store.BundleStore
	logger     logging.Logger
}

// NewRunner creates a Runner. A nil store skips persistence.
func NewRunner(engine *trend.Engine, bundleStore store.BundleStore, logger logging.Logger) *Runner {
	if bundleStore == nil {
		bundleStore = store.NopStore{}
	}
	return &Runner{
		aggregator: NewAggregator(logger),
		engine:     engine,
		store:      bundleStore,
		logger:     logger,
	}
}

// Result is the outcome of one Run.
type Result struct {
	Run     store.Run
	Bundles []trend.CategoryBundle
	Files   []string
}

// Run fits the given input files or directories and saves the resulting run.
func (r *Runner) Run(ctx context.Context, inputs []string) (*Result, error) {
	start := time.Now()

	files, err := r.aggregator.ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}
	table, err := r.aggregator.AggregateFiles(files)
	if err != nil {
		return nil, err
	}

	bundles, err := r.engine.BuildBundles(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("fitting categories: %w", err)
	}

	run := store.NewRun(strings.Join(files, ","), bundles)
	if err := r.store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	r.logger.Info("Fit run completed",
		logging.F(logging.FieldRunID, run.ID),
		logging.F(logging.FieldCount, len(bundles)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return &Result{Run: run, Bundles: bundles, Files: files}, nil
}
