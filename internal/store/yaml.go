package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fjacquet/trendfit/internal/fileutils"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/models"

	"gopkg.in/yaml.v3"
)

// YAMLStore keeps the most recent run in a single YAML file. Saving replaces it.
type YAMLStore struct {
	path   string
	logger logging.Logger
}

// NewYAMLStore creates a store backed by the file at path.
func NewYAMLStore(path string, logger logging.Logger) *YAMLStore {
	return &YAMLStore{path: path, logger: logger}
}

// Path returns the backing file.
func (s *YAMLStore) Path() string { return s.path }

// Save replaces the store file atomically with run.
func (s *YAMLStore) Save(_ context.Context, run Run) error {
	data, err := yaml.Marshal(run)
	if err != nil {
		return fmt.Errorf("error marshaling run to YAML: %w", err)
	}

	if err := fileutils.WriteFileAtomic(s.path, data, models.PermissionFile); err != nil {
		return fmt.Errorf("error saving run file: %w", err)
	}

	s.logger.Debug("Saved fit run",
		logging.F(logging.FieldRunID, run.ID),
		logging.F(logging.FieldStore, s.path),
		logging.F(logging.FieldCount, len(run.Bundles)))
	return nil
}

// Latest reads the stored run.
func (s *YAMLStore) Latest(_ context.Context) (Run, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Run{}, ErrNoRuns
		}
		return Run{}, fmt.Errorf("error reading run file: %w", err)
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return Run{}, fmt.Errorf("error parsing run file %s: %w", s.path, err)
	}
	return run, nil
}

// Runs lists the single stored run, if any.
func (s *YAMLStore) Runs(ctx context.Context) ([]RunSummary, error) {
	run, err := s.Latest(ctx)
	if errors.Is(err, ErrNoRuns) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []RunSummary{{ID: run.ID, CreatedAt: run.CreatedAt, Source: run.Source, Categories: len(run.Bundles)}}, nil
}

// Close is a no-op.
func (s *YAMLStore) Close() error { return nil }
