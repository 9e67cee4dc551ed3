// Package repository persists run history and the account ledger in Postgres.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/qaforge/exercise-e2e/internal/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// RunSummary is a run with its final outcome counts.
type RunSummary struct {
	Run     *models.Run
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// RunRepository handles database operations for test runs and their results
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun inserts a run
func (r *RunRepository) CreateRun(ctx context.Context, run *models.Run) error {
	query := `
		INSERT INTO test_runs (id, base_url, engine, started_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, run.ID, run.BaseURL, run.Engine, run.StartedAt); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun stores the finish time of a run
func (r *RunRepository) FinishRun(ctx context.Context, run *models.Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	result, err := r.db.ExecContext(ctx, `UPDATE test_runs SET finished_at = $1 WHERE id = $2`, finished, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// AddResult inserts one scenario attempt
func (r *RunRepository) AddResult(ctx context.Context, res *models.ScenarioResult) error {
	query := `
		INSERT INTO scenario_results (id, run_id, scenario, profile, attempt, status, duration_ms, error, artifacts, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	artifacts := res.Artifacts
	if artifacts == nil {
		artifacts = []string{}
	}
	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.RunID,
		res.Scenario,
		res.Profile,
		res.Attempt,
		res.Status,
		res.Duration.Milliseconds(),
		res.Error,
		pq.Array(artifacts),
		res.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add scenario result: %w", err)
	}
	return nil
}

// GetRun retrieves a run by id
func (r *RunRepository) GetRun(ctx context.Context, id string) (*models.Run, error) {
	query := `
		SELECT id, base_url, engine, started_at, finished_at
		FROM test_runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs with their outcome counts, newest first.
// Counts consider the last attempt of every scenario/profile pair.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		WITH final AS (
			SELECT DISTINCT ON (run_id, scenario, profile) run_id, status
			FROM scenario_results
			ORDER BY run_id, scenario, profile, attempt DESC
		)
		SELECT r.id, r.base_url, r.engine, r.started_at, r.finished_at,
		       COUNT(f.status),
		       COUNT(*) FILTER (WHERE f.status = 'passed'),
		       COUNT(*) FILTER (WHERE f.status = 'failed'),
		       COUNT(*) FILTER (WHERE f.status = 'skipped')
		FROM test_runs r
		LEFT JOIN final f ON f.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var (
			s        RunSummary
			run      models.Run
			finished sql.NullTime
		)
		if err := rows.Scan(&run.ID, &run.BaseURL, &run.Engine, &run.StartedAt, &finished,
			&s.Total, &s.Passed, &s.Failed, &s.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		s.Run = &run
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return summaries, nil
}

// ListResults returns every attempt of a run in start order
func (r *RunRepository) ListResults(ctx context.Context, runID string) ([]*models.ScenarioResult, error) {
	query := `
		SELECT id, run_id, scenario, profile, attempt, status, duration_ms, error, artifacts, started_at
		FROM scenario_results
		WHERE run_id = $1
		ORDER BY started_at, profile, scenario, attempt
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.ScenarioResult
	for rows.Next() {
		var (
			res        models.ScenarioResult
			durationMS int64
		)
		if err := rows.Scan(&res.ID, &res.RunID, &res.Scenario, &res.Profile, &res.Attempt,
			&res.Status, &durationMS, &res.Error, pq.Array(&res.Artifacts), &res.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func scanRun(row *sql.Row) (*models.Run, error) {
	var (
		run      models.Run
		finished sql.NullTime
	)
	if err := row.Scan(&run.ID, &run.BaseURL, &run.Engine, &run.StartedAt, &finished); err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}
