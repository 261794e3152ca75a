// Package container provides dependency injection for the trendfit application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/trendfit/internal/batch"
	"fjacquet/trendfit/internal/common"
	"fjacquet/trendfit/internal/config"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/report"
	"fjacquet/trendfit/internal/store"
	"fjacquet/trendfit/internal/trend"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation; dependencies are reached through getters.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	engine    *trend.Engine
	store     store.BundleStore
	runner    *batch.Runner
	generator *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies, logging through a
// logrus adapter configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	if cfg.CSV.Delimiter != "" {
		common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
	}

	bundleStore, err := store.New(cfg.Store.Backend, cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening model store: %w", err)
	}

	engine := trend.NewEngine(cfg.EngineOptions(), logger)

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldStore, cfg.Store.Backend),
		logging.F(logging.FieldWorkers, cfg.Fit.Workers))

	return &Container{
		logger:    logger,
		config:    cfg,
		engine:    engine,
		store:     bundleStore,
		runner:    batch.NewRunner(engine, bundleStore, logger),
		generator: report.NewReportGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetEngine returns the trend engine.
func (c *Container) GetEngine() *trend.Engine {
	return c.engine
}

// GetStore returns the model store.
func (c *Container) GetStore() store.BundleStore {
	return c.store
}

// GetRunner returns the fit pipeline.
func (c *Container) GetRunner() *batch.Runner {
	return c.runner
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// Close releases the model store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("closing model store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
