package fixture

import (
	"context"
	"errors"
	"testing"

	"github.com/qaforge/exercise-e2e/internal/api"
	"github.com/qaforge/exercise-e2e/internal/logging"
	"github.com/qaforge/exercise-e2e/internal/models"
	"github.com/qaforge/exercise-e2e/internal/testdata"
)

func newAccount(t *testing.T, ledger Ledger) *models.Account {
	t.Helper()
	acct, err := models.NewAccount(testdata.GenerateRandomUser(), "Register User", "chromium")
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if err := ledger.RecordCreated(context.Background(), acct); err != nil {
		t.Fatalf("Failed to record account: %v", err)
	}
	return acct
}

func TestRemoveAccount(t *testing.T) {
	tests := []struct {
		name       string
		api        *fakeAPI
		wantErr    bool
		wantActive int
	}{
		{name: "deleted", api: &fakeAPI{code: api.CodeOK}, wantActive: 0},
		{name: "already gone", api: &fakeAPI{code: api.CodeNotFound}, wantActive: 0},
		{name: "rejected", api: &fakeAPI{code: api.CodeBadRequest}, wantErr: true, wantActive: 1},
		{name: "transport error", api: &fakeAPI{err: errors.New("connection reset")}, wantErr: true, wantActive: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewMemoryLedger()
			acct := newAccount(t, ledger)

			err := RemoveAccount(context.Background(), api.NewMethods(tt.api), ledger, acct)

			if (err != nil) != tt.wantErr {
				t.Errorf("RemoveAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
			active, _ := ledger.ListActive(context.Background())
			if len(active) != tt.wantActive {
				t.Errorf("Expected %d active accounts, got %d", tt.wantActive, len(active))
			}
		})
	}
}

func TestCleanupLedger(t *testing.T) {
	ledger := NewMemoryLedger()
	ok := newAccount(t, ledger)
	rejected := newAccount(t, ledger)
	gone := newAccount(t, ledger)
	fake := &fakeAPI{codes: map[string]int{rejected.Email: api.CodeBadRequest, gone.Email: api.CodeNotFound}}

	removed, err := CleanupLedger(context.Background(), api.NewMethods(fake), ledger, logging.New("error"))

	if err == nil {
		t.Error("Expected the rejected deletion to be reported")
	}
	if removed != 2 {
		t.Errorf("Expected 2 accounts removed, got %d", removed)
	}
	if len(fake.Deleted()) != 3 {
		t.Errorf("Expected every account to be attempted, got %v", fake.Deleted())
	}

	active, _ := ledger.ListActive(context.Background())
	if len(active) != 1 || active[0].Email != rejected.Email {
		t.Errorf("Expected only %s to stay active, got %v", rejected.Email, active)
	}
	if fake.Deleted()[0] != ok.Email {
		t.Errorf("Expected oldest account %s to be removed first, got %s", ok.Email, fake.Deleted()[0])
	}
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	first := newAccount(t, ledger)
	second := newAccount(t, ledger)

	if err := ledger.MarkDeleted(ctx, "unknown@example.com"); err != nil {
		t.Errorf("Expected unknown email to be ignored, got %v", err)
	}
	if err := ledger.MarkDeleted(ctx, first.Email); err != nil {
		t.Fatalf("MarkDeleted() error = %v", err)
	}

	active, err := ledger.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 1 || active[0].Email != second.Email {
		t.Errorf("Expected only %s active, got %v", second.Email, active)
	}

	active[0].Status = models.AccountDeleted
	again, _ := ledger.ListActive(ctx)
	if len(again) != 1 {
		t.Error("Expected ListActive to return copies")
	}
}

func TestAccounts_Tracking(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	fake := &fakeAPI{}
	accounts := newAccounts(ledger, api.NewMethods(fake), logging.New("error"), "Register User", "firefox")

	if err := accounts.Created(ctx, models.UserRecord{}); !errors.Is(err, models.ErrEmptyEmail) {
		t.Errorf("Expected ErrEmptyEmail, got %v", err)
	}

	user := testdata.GenerateRandomUser()
	if err := accounts.Created(ctx, user); err != nil {
		t.Fatalf("Created() error = %v", err)
	}
	if got := accounts.Active(); len(got) != 1 || got[0].Profile != "firefox" {
		t.Fatalf("Expected one tracked firefox account, got %v", got)
	}

	if err := accounts.Deleted(ctx, "someone-else@example.com"); err != nil {
		t.Errorf("Expected untracked email to be ignored, got %v", err)
	}
	if err := accounts.Deleted(ctx, user.Email); err != nil {
		t.Fatalf("Deleted() error = %v", err)
	}
	if len(accounts.Active()) != 0 {
		t.Error("Expected no active accounts after Deleted")
	}

	if err := accounts.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}
	if len(fake.Deleted()) != 0 {
		t.Errorf("Expected no API deletions, got %v", fake.Deleted())
	}
}

func TestAccounts_CleanupFailureKeepsAccountActive(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	fake := &fakeAPI{code: api.CodeMethodNotAllowed}
	accounts := newAccounts(ledger, api.NewMethods(fake), logging.New("error"), "Register User", "chromium")

	user := testdata.GenerateRandomUser()
	accounts.Created(ctx, user)

	if err := accounts.Cleanup(ctx); !errors.Is(err, api.ErrUnexpectedResponse) {
		t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
	}
	if len(accounts.Active()) != 1 {
		t.Error("Expected the account to stay active")
	}
	active, _ := ledger.ListActive(ctx)
	if len(active) != 1 {
		t.Error("Expected the ledger entry to stay active for the cleanup command")
	}
}
