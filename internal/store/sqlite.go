package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fjacquet/trendfit/internal/fileutils"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/trend"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS fit_runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	source     TEXT,
	categories INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_models (
	run_id     TEXT NOT NULL REFERENCES fit_runs(run_id) ON DELETE CASCADE,
	category   TEXT NOT NULL,
	target     TEXT NOT NULL,
	model_type TEXT NOT NULL,
	parameters TEXT NOT NULL,
	equation   TEXT,
	PRIMARY KEY (run_id, category, target)
);

CREATE INDEX IF NOT EXISTS idx_run_models_category ON run_models(category);
`

// SQLiteStore keeps every run in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// OpenSQLiteStore opens or creates the database at dbPath and applies the schema.
func OpenSQLiteStore(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("SQLite store opened", logging.F(logging.FieldStore, dbPath))
	return &SQLiteStore{db: db, path: dbPath, logger: logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts the run and its models in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fit_runs (run_id, created_at, source, categories) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.Source, len(run.Bundles))
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for _, b := range run.Bundles {
		for target, m := range b.Models {
			_, err = tx.ExecContext(ctx, `INSERT INTO run_models
				(run_id, category, target, model_type, parameters, equation)
				VALUES (?, ?, ?, ?, ?, ?)`,
				run.ID, b.Category, string(target), string(m.Type), encodeParameters(m.Parameters), m.Equation)
			if err != nil {
				return fmt.Errorf("inserting model %s/%s: %w", b.Category, target, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug("Saved fit run",
		logging.F(logging.FieldRunID, run.ID),
		logging.F(logging.FieldStore, s.path),
		logging.F(logging.FieldCount, len(run.Bundles)))
	return nil
}

// Latest loads the most recently saved run.
func (s *SQLiteStore) Latest(ctx context.Context) (Run, error) {
	var run Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, created_at, COALESCE(source, '') FROM fit_runs ORDER BY id DESC LIMIT 1`).
		Scan(&run.ID, &createdAt, &run.Source)
	if err == sql.ErrNoRows {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("parsing run timestamp %q: %w", createdAt, err)
	}

	run.Bundles, err = s.loadBundles(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *SQLiteStore) loadBundles(ctx context.Context, runID string) ([]trend.StoredBundle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, target, model_type, parameters, COALESCE(equation, '')
		FROM run_models WHERE run_id = ? ORDER BY category, target`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var bundles []trend.StoredBundle
	for rows.Next() {
		var category, target, modelType, params, equation string
		if err := rows.Scan(&category, &target, &modelType, &params, &equation); err != nil {
			return nil, err
		}
		values, err := decodeParameters(params)
		if err != nil {
			return nil, fmt.Errorf("decoding parameters of %s/%s: %w", category, target, err)
		}

		if len(bundles) == 0 || bundles[len(bundles)-1].Category != category {
			bundles = append(bundles, trend.StoredBundle{
				Category: category,
				Models:   make(map[trend.TargetKind]trend.StoredModel),
			})
		}
		bundles[len(bundles)-1].Models[trend.TargetKind(target)] = trend.StoredModel{
			Type:       trend.ModelType(modelType),
			Parameters: values,
			Equation:   equation,
		}
	}
	return bundles, rows.Err()
}

// Runs lists stored runs, newest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, created_at, COALESCE(source, ''), categories FROM fit_runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Source, &r.Categories); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing run timestamp %q: %w", createdAt, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ Pruner = (*SQLiteStore)(nil)

// Prune keeps the newest keep runs and deletes the rest.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM fit_runs WHERE id NOT IN
		(SELECT id FROM fit_runs ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// encodeParameters writes the vector as space-separated shortest floats, which keeps
// NaN and infinities intact.
func encodeParameters(params []float64) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strconv.FormatFloat(p, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func decodeParameters(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
