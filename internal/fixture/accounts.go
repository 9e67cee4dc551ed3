package fixture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/api"
	"github.com/qaforge/exercise-e2e/internal/models"
	"github.com/qaforge/exercise-e2e/internal/repository"
)

// AccountRemover deletes a site account. *api.Methods implements it.
type AccountRemover interface {
	DeleteAccount(ctx context.Context, email, password string) (*api.Response, error)
}

// RemoveAccount deletes acct through the API and marks it deleted in the
// ledger. An account the site no longer knows counts as removed.
func RemoveAccount(ctx context.Context, remover AccountRemover, ledger Ledger, acct *models.Account) error {
	resp, err := remover.DeleteAccount(ctx, acct.Email, acct.Password)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", acct.Email, err)
	}
	if err := resp.Expect(api.CodeOK, api.CodeNotFound); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", acct.Email, err)
	}
	if err := ledger.MarkDeleted(ctx, acct.Email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to update ledger for %s: %w", acct.Email, err)
	}
	return nil
}

// CleanupLedger removes every account still active in the ledger and returns
// how many were removed. It keeps going past failures and returns the first.
func CleanupLedger(ctx context.Context, remover AccountRemover, ledger Ledger, logger *log.Logger) (int, error) {
	active, err := ledger.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active accounts: %w", err)
	}

	var (
		removed  int
		firstErr error
	)
	for _, acct := range active {
		if err := RemoveAccount(ctx, remover, ledger, acct); err != nil {
			logger.Warn().Err(err).Str("email", acct.Email).Msg("account cleanup failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Info().Str("email", acct.Email).Str("scenario", acct.Scenario).Msg("leftover account removed")
		removed++
	}
	return removed, firstErr
}

// Accounts tracks the accounts one scenario attempt creates. Whatever is
// still active at teardown is deleted through the API.
type Accounts struct {
	mu       sync.Mutex
	ledger   Ledger
	remover  AccountRemover
	logger   *log.Logger
	scenario string
	profile  string
	tracked  []*models.Account
}

func newAccounts(ledger Ledger, remover AccountRemover, logger *log.Logger, scenario, profile string) *Accounts {
	return &Accounts{
		ledger:   ledger,
		remover:  remover,
		logger:   logger,
		scenario: scenario,
		profile:  profile,
	}
}

// Created records that the scenario registered user on the site. A ledger
// failure is logged; the account is still removed at teardown.
func (a *Accounts) Created(ctx context.Context, user models.UserRecord) error {
	acct, err := models.NewAccount(user, a.scenario, a.profile)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.tracked = append(a.tracked, acct)
	a.mu.Unlock()

	if err := a.ledger.RecordCreated(ctx, acct); err != nil {
		a.logger.Warn().Err(err).Str("email", acct.Email).Msg("failed to record account")
	}
	return nil
}

// Deleted records that the scenario deleted the account for email itself.
func (a *Accounts) Deleted(ctx context.Context, email string) error {
	a.mu.Lock()
	var found bool
	for _, acct := range a.tracked {
		if acct.Email == email && acct.IsActive() {
			if err := acct.Delete(); err != nil {
				a.logger.Warn().Err(err).Str("email", email).Msg("failed to mark account deleted")
				continue
			}
			found = true
		}
	}
	a.mu.Unlock()

	if !found {
		return nil
	}
	if err := a.ledger.MarkDeleted(ctx, email); err != nil {
		a.logger.Warn().Err(err).Str("email", email).Msg("failed to update account ledger")
	}
	return nil
}

// Active returns the accounts not yet deleted.
func (a *Accounts) Active() []*models.Account {
	a.mu.Lock()
	defer a.mu.Unlock()

	var active []*models.Account
	for _, acct := range a.tracked {
		if acct.IsActive() {
			active = append(active, acct)
		}
	}
	return active
}

// Cleanup deletes every still active account. Failures are logged and the
// first one is returned.
func (a *Accounts) Cleanup(ctx context.Context) error {
	var firstErr error
	for _, acct := range a.Active() {
		if err := RemoveAccount(ctx, a.remover, a.ledger, acct); err != nil {
			a.logger.Warn().Err(err).Str("email", acct.Email).Msg("account cleanup failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		a.mu.Lock()
		err := acct.Delete()
		a.mu.Unlock()
		if err != nil {
			// Deleted by the scenario while the API call was in flight.
			a.logger.Debug().Err(err).Str("email", acct.Email).Msg("account already marked deleted")
			continue
		}
		a.logger.Debug().Str("email", acct.Email).Msg("account removed at teardown")
	}
	return firstErr
}
