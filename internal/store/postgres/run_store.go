package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bess-colocation/internal/store"
)

// RunStore implements store.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ store.RunStore = (*RunStore)(nil)

const runsSchema = `
	CREATE TABLE IF NOT EXISTS comparison_runs (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		region TEXT NOT NULL,
		year INT NOT NULL,
		battery_power_mw DOUBLE PRECISION NOT NULL,
		battery_hours DOUBLE PRECISION NOT NULL,
		solar_mw DOUBLE PRECISION NOT NULL,
		revenue_source TEXT NOT NULL,
		summaries JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comparison_runs_created_at
		ON comparison_runs (created_at DESC);
`

// EnsureSchema creates the comparison_runs table if it does not exist.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, runsSchema); err != nil {
		return fmt.Errorf("ensure comparison_runs schema: %w", err)
	}
	return nil
}

// Insert adds a new run. Returns ErrDuplicateKey if the run ID exists.
func (s *RunStore) Insert(ctx context.Context, run *store.ComparisonRun) error {
	if run == nil || run.ID == uuid.Nil || len(run.Summaries) == 0 {
		return store.ErrInvalidInput
	}

	query := `
		INSERT INTO comparison_runs (
			id, created_at, region, year, battery_power_mw, battery_hours, solar_mw, revenue_source, summaries
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		run.ID,
		run.CreatedAt,
		run.Region,
		run.Year,
		run.BatteryPowerMW,
		run.BatteryHours,
		run.SolarMW,
		run.RevenueSource,
		[]byte(run.Summaries),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, id uuid.UUID) (*store.ComparisonRun, error) {
	query := `
		SELECT id, created_at, region, year, battery_power_mw, battery_hours, solar_mw, revenue_source, summaries
		FROM comparison_runs
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	run, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return run, nil
}

// ListRecent retrieves up to limit runs, newest first.
func (s *RunStore) ListRecent(ctx context.Context, limit int) ([]*store.ComparisonRun, error) {
	if limit <= 0 {
		return nil, store.ErrInvalidInput
	}

	query := `
		SELECT id, created_at, region, year, battery_power_mw, battery_hours, solar_mw, revenue_source, summaries
		FROM comparison_runs
		ORDER BY created_at DESC, id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// scanRun scans a single row into a ComparisonRun.
func scanRun(row pgx.Row) (*store.ComparisonRun, error) {
	var run store.ComparisonRun
	var summaries []byte

	err := row.Scan(
		&run.ID,
		&run.CreatedAt,
		&run.Region,
		&run.Year,
		&run.BatteryPowerMW,
		&run.BatteryHours,
		&run.SolarMW,
		&run.RevenueSource,
		&summaries,
	)
	if err != nil {
		return nil, err
	}

	run.Summaries = summaries
	return &run, nil
}

// scanRuns scans multiple rows into a slice of ComparisonRun.
func scanRuns(rows pgx.Rows) ([]*store.ComparisonRun, error) {
	var runs []*store.ComparisonRun

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}
