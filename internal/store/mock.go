package store

import (
	"context"
	"sync"
)

// MockBundleStore is an in-memory BundleStore for testing.
type MockBundleStore struct {
	mu   sync.Mutex
	runs []Run

	// Error flags for testing error conditions
	SaveError   error
	LatestError error
	Closed      bool
}

// Save appends the run.
func (m *MockBundleStore) Save(_ context.Context, run Run) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// Latest returns the last saved run.
func (m *MockBundleStore) Latest(_ context.Context) (Run, error) {
	if m.LatestError != nil {
		return Run{}, m.LatestError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return m.runs[len(m.runs)-1], nil
}

// Runs lists saved runs, newest first.
func (m *MockBundleStore) Runs(_ context.Context) ([]RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunSummary, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		r := m.runs[i]
		out = append(out, RunSummary{ID: r.ID, CreatedAt: r.CreatedAt, Source: r.Source, Categories: len(r.Bundles)})
	}
	return out, nil
}

// Close marks the store closed.
func (m *MockBundleStore) Close() error {
	m.Closed = true
	return nil
}

// SavedRuns returns a copy of every saved run in save order.
func (m *MockBundleStore) SavedRuns() []Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Run(nil), m.runs...)
}
