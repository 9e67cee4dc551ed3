package fixture

import (
	"context"
	"sort"
	"sync"

	"github.com/qaforge/exercise-e2e/internal/models"
)

// Ledger records every account scenarios create so leftovers can be removed.
type Ledger interface {
	RecordCreated(ctx context.Context, acct *models.Account) error
	MarkDeleted(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]*models.Account, error)
}

// MemoryLedger is a process-local Ledger used when Postgres is not configured.
type MemoryLedger struct {
	mu       sync.Mutex
	accounts []*models.Account
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// RecordCreated implements Ledger
func (l *MemoryLedger) RecordCreated(ctx context.Context, acct *models.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := *acct
	l.accounts = append(l.accounts, &cp)
	return nil
}

// MarkDeleted implements Ledger. Unknown emails are ignored.
func (l *MemoryLedger) MarkDeleted(ctx context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, acct := range l.accounts {
		if acct.Email == email && acct.IsActive() {
			if err := acct.Delete(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ListActive implements Ledger
func (l *MemoryLedger) ListActive(ctx context.Context) ([]*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var active []*models.Account
	for _, acct := range l.accounts {
		if acct.IsActive() {
			cp := *acct
			active = append(active, &cp)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active, nil
}
