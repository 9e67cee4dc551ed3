package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/qaforge/exercise-e2e/internal/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"E2E_CONFIG", "POSTGRES_HOSTNAME", "POSTGRES_PORT", "POSTGRES_SSLMODE", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "LOG_LEVEL", "CI", "RETRIES"} {
		t.Setenv(key, "")
	}
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"exercise"}, args...))
	return out.String(), err
}

func TestGenerateUser(t *testing.T) {
	clearEnv(t)

	// GIVEN a fixed seed
	// WHEN a user is generated twice
	first, err := runApp(t, "generate", "user", "--seed", "42")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := runApp(t, "generate", "user", "--seed", "42")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// THEN the output is the same valid record
	if first != second {
		t.Errorf("Expected identical output for the same seed, got %q and %q", first, second)
	}
	var user models.UserRecord
	if err := json.Unmarshal([]byte(first), &user); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", first, err)
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected a valid user, got %v", err)
	}
}

func TestGeneratePayment(t *testing.T) {
	clearEnv(t)

	out, err := runApp(t, "generate", "payment")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var payment map[string]any
	if err := json.Unmarshal([]byte(out), &payment); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out, err)
	}
	if len(payment) == 0 {
		t.Error("Expected payment fields, got none")
	}
}

func TestCleanupRequiresPostgres(t *testing.T) {
	clearEnv(t)

	_, err := runApp(t, "cleanup")
	if !errors.Is(err, errNoLedger) {
		t.Errorf("Expected errNoLedger, got %v", err)
	}
}

func TestAccountDeleteRequiresFlags(t *testing.T) {
	clearEnv(t)

	if _, err := runApp(t, "account", "delete", "--email", "someone@example.com"); err == nil {
		t.Error("Expected an error for the missing password flag")
	}
}

func TestInvalidConfiguration(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETRIES", "many")

	if _, err := runApp(t, "generate", "user"); err == nil {
		t.Error("Expected a configuration error")
	}
}
