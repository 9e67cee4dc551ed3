package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/qaforge/exercise-e2e/internal/models"
)

// AccountRepository is the Postgres account ledger
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// RecordCreated inserts an active ledger entry
func (r *AccountRepository) RecordCreated(ctx context.Context, acct *models.Account) error {
	query := `
		INSERT INTO accounts (id, email, password, display_name, scenario, profile, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		acct.ID,
		acct.Email,
		acct.Password,
		acct.DisplayName,
		acct.Scenario,
		acct.Profile,
		acct.Status,
		acct.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record account: %w", err)
	}
	return nil
}

// MarkDeleted marks every active entry for email as deleted
func (r *AccountRepository) MarkDeleted(ctx context.Context, email string) error {
	query := `
		UPDATE accounts
		SET status = $1, deleted_at = $2
		WHERE email = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, models.AccountDeleted, time.Now(), email, models.AccountActive)
	if err != nil {
		return fmt.Errorf("failed to mark account deleted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("active account %s: %w", email, ErrNotFound)
	}
	return nil
}

// ListActive returns every entry still active, oldest first
func (r *AccountRepository) ListActive(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, email, password, display_name, scenario, profile, status, created_at
		FROM accounts
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, models.AccountActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var acct models.Account
		if err := rows.Scan(&acct.ID, &acct.Email, &acct.Password, &acct.DisplayName,
			&acct.Scenario, &acct.Profile, &acct.Status, &acct.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
