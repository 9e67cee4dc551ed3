package database

import (
	"database/sql"
	"fmt"

	"github.com/phuslu/log"
)

// Schema creates the run history and account ledger tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS test_runs (
	id UUID PRIMARY KEY,
	base_url VARCHAR(255) NOT NULL,
	engine VARCHAR(50) NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS scenario_results (
	id UUID PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES test_runs(id) ON DELETE CASCADE,
	scenario VARCHAR(255) NOT NULL,
	profile VARCHAR(100) NOT NULL,
	attempt INTEGER NOT NULL,
	status VARCHAR(20) NOT NULL,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	artifacts TEXT[] NOT NULL DEFAULT '{}',
	started_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenario_results_run_id ON scenario_results(run_id);

CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	display_name VARCHAR(255) NOT NULL,
	scenario VARCHAR(255) NOT NULL,
	profile VARCHAR(100) NOT NULL,
	status VARCHAR(20) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);
CREATE INDEX IF NOT EXISTS idx_accounts_status ON accounts(status);
`

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Debug().Msg("database migrations completed")
	return nil
}
