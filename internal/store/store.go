// Package store persists fitted category bundles between runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/trend"

	"github.com/google/uuid"
)

// ErrNoRuns is returned by Latest when nothing has been saved yet.
var ErrNoRuns = errors.New("no fit runs stored")

// Default file locations per backend.
const (
	DefaultYAMLPath   = "trendfit-models.yaml"
	DefaultSQLitePath = "trendfit.db"
)

// Run is one engine invocation and the bundles it produced.
type Run struct {
	ID        string               `yaml:"run_id" json:"run_id"`
	CreatedAt time.Time            `yaml:"created_at" json:"created_at"`
	Source    string               `yaml:"source" json:"source"`
	Bundles   []trend.StoredBundle `yaml:"bundles" json:"bundles"`
}

// RunSummary describes a stored run without its models.
type RunSummary struct {
	ID         string    `yaml:"run_id" json:"run_id"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at"`
	Source     string    `yaml:"source" json:"source"`
	Categories int       `yaml:"categories" json:"categories"`
}

// Pruner is implemented by stores that keep a run history.
type Pruner interface {
	Prune(ctx context.Context, keep int) (int64, error)
}

// NewRun stamps bundles with a fresh run id and the current time.
func NewRun(source string, bundles []trend.CategoryBundle) Run {
	return Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Bundles:   trend.ToStoredAll(bundles),
	}
}

// Restore rebuilds the evaluable bundles of the run.
func (r Run) Restore() ([]trend.CategoryBundle, error) {
	return trend.RestoreAll(r.Bundles)
}

// BundleStore saves and loads fit runs.
type BundleStore interface {
	Save(ctx context.Context, run Run) error
	Latest(ctx context.Context) (Run, error)
	Runs(ctx context.Context) ([]RunSummary, error)
	Close() error
}

// Backend names accepted by New.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// New opens the store for backend at path. An empty path selects the backend default.
func New(backend, path string, logger logging.Logger) (BundleStore, error) {
	switch backend {
	case BackendYAML:
		if path == "" {
			path = DefaultYAMLPath
		}
		return NewYAMLStore(path, logger), nil
	case BackendSQLite:
		if path == "" {
			path = DefaultSQLitePath
		}
		return OpenSQLiteStore(path, logger)
	case BackendNone, "":
		return NopStore{}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

// NopStore discards saves and never has a run to return.
type NopStore struct{}

func (NopStore) Save(context.Context, Run) error            { return nil }
func (NopStore) Latest(context.Context) (Run, error)        { return Run{}, ErrNoRuns }
func (NopStore) Runs(context.Context) ([]RunSummary, error) { return nil, nil }
func (NopStore) Close() error                               { return nil }
