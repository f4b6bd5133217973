// Package runs persists filter-run history to SQLite so batch results
// stay attributable to the exact parameters that produced them.
package runs

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migsqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/strata-geo/gridfilter/internal/grid"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed run-history store.
type Store struct {
	*sql.DB
}

// FilterRun describes one engine invocation.
type FilterRun struct {
	RunID      string
	SourcePath string
	Filter     string
	ParamsJSON string
	Rows       int
	Cols       int
	Started    time.Time
	Finished   time.Time
}

// OutputStats summarises one produced raster.
type OutputStats struct {
	Name string
	Rows int
	Cols int
	Min  float64
	Max  float64
	Mean float64
}

// Open opens (or creates) the store at path and applies any pending
// schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	drv, err := migsqlite.WithInstance(db, &migsqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// RecordRun inserts a run row. An empty RunID is assigned a fresh UUID;
// the stored ID is returned either way.
func (s *Store) RecordRun(run *FilterRun) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	_, err := s.Exec(`
		INSERT INTO filter_runs
			(run_id, source_path, filter, params_json, rows, cols,
			 started_unix_nanos, finished_unix_nanos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SourcePath, run.Filter, run.ParamsJSON,
		run.Rows, run.Cols, run.Started.UnixNano(), run.Finished.UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.RunID, nil
}

// RecordOutput inserts stats for one output raster of a run. Grids
// with no valid cells record NULL statistics.
func (s *Store) RecordOutput(runID, name string, g *grid.Grid) error {
	var min, max, mean any
	if lo, hi, err := g.MinMax(); err == nil {
		min, max = lo, hi
	}
	if m, err := g.Mean(); err == nil {
		mean = m
	}
	_, err := s.Exec(`
		INSERT INTO filter_outputs (run_id, name, rows, cols, min_value, max_value, mean_value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, name, g.Rows, g.Cols, min, max, mean)
	if err != nil {
		return fmt.Errorf("insert output %q: %w", name, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]FilterRun, error) {
	rows, err := s.Query(`
		SELECT run_id, source_path, filter, params_json, rows, cols,
		       started_unix_nanos, finished_unix_nanos
		FROM filter_runs ORDER BY started_unix_nanos DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []FilterRun
	for rows.Next() {
		var r FilterRun
		var started, finished int64
		if err := rows.Scan(&r.RunID, &r.SourcePath, &r.Filter, &r.ParamsJSON,
			&r.Rows, &r.Cols, &started, &finished); err != nil {
			return nil, err
		}
		r.Started = time.Unix(0, started)
		r.Finished = time.Unix(0, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Outputs returns the recorded output stats for a run.
func (s *Store) Outputs(runID string) ([]OutputStats, error) {
	rows, err := s.Query(`
		SELECT name, rows, cols,
		       COALESCE(min_value, 0), COALESCE(max_value, 0), COALESCE(mean_value, 0)
		FROM filter_outputs WHERE run_id = ? ORDER BY output_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	defer rows.Close()

	var out []OutputStats
	for rows.Next() {
		var o OutputStats
		if err := rows.Scan(&o.Name, &o.Rows, &o.Cols, &o.Min, &o.Max, &o.Mean); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
