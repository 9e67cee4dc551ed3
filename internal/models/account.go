package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents whether a suite-created account still exists on the site
type AccountStatus string

// Account statuses
const (
	AccountActive  AccountStatus = "active"
	AccountDeleted AccountStatus = "deleted"
)

// Account is a ledger entry for a user account created by a scenario. The
// password is kept so the account can be removed through the API when the
// scenario that created it did not finish.
type Account struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	Scenario    string
	Profile     string
	Status      AccountStatus
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// NewAccount creates an active ledger entry for user.
func NewAccount(user UserRecord, scenario, profile string) (*Account, error) {
	if user.Email == "" {
		return nil, ErrEmptyEmail
	}

	return &Account{
		ID:          uuid.New().String(),
		Email:       user.Email,
		Password:    user.Password,
		DisplayName: user.DisplayName,
		Scenario:    scenario,
		Profile:     profile,
		Status:      AccountActive,
		CreatedAt:   time.Now(),
	}, nil
}

// Delete marks the account as removed from the site
func (a *Account) Delete() error {
	if a.Status == AccountDeleted {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyDeleted, a.Email)
	}
	if a.Status != AccountActive {
		return fmt.Errorf("%w: cannot delete account with status %s", ErrInvalidStatusTransition, a.Status)
	}

	now := time.Now()
	a.Status = AccountDeleted
	a.DeletedAt = &now
	return nil
}

// IsActive returns true while the account still exists on the site
func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}
