package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewScenarioResult(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		profile  string
		wantErr  error
	}{
		{
			name:     "valid result",
			scenario: "should register user successfully",
			profile:  "chromium",
			wantErr:  nil,
		},
		{
			name:     "empty scenario",
			scenario: "",
			profile:  "chromium",
			wantErr:  ErrEmptyScenario,
		},
		{
			name:     "empty profile",
			scenario: "should logout",
			profile:  "",
			wantErr:  ErrEmptyProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewScenarioResult("run-1", tt.scenario, tt.profile, 0)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewScenarioResult() error = %v, wantErr %v", err, tt.wantErr)
				}
				if result != nil {
					t.Error("Expected result to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewScenarioResult() unexpected error = %v", err)
			}
			if result.ID == "" {
				t.Error("Result ID should not be empty")
			}
			if result.Status != ResultPending {
				t.Errorf("Expected status %s, got %s", ResultPending, result.Status)
			}
			if result.RunID != "run-1" {
				t.Errorf("Expected run ID run-1, got %s", result.RunID)
			}
		})
	}
}

func TestScenarioResult_Transitions(t *testing.T) {
	tests := []struct {
		name         string
		initialState ResultStatus
		transition   func(r *ScenarioResult) error
		wantStatus   ResultStatus
		wantErr      bool
	}{
		{
			name:         "pass pending result",
			initialState: ResultPending,
			transition:   func(r *ScenarioResult) error { return r.Pass(time.Second) },
			wantStatus:   ResultPassed,
		},
		{
			name:         "cannot pass failed result",
			initialState: ResultFailed,
			transition:   func(r *ScenarioResult) error { return r.Pass(time.Second) },
			wantStatus:   ResultFailed,
			wantErr:      true,
		},
		{
			name:         "fail pending result",
			initialState: ResultPending,
			transition:   func(r *ScenarioResult) error { return r.Fail(time.Second, errors.New("boom")) },
			wantStatus:   ResultFailed,
		},
		{
			name:         "fail is idempotent",
			initialState: ResultFailed,
			transition:   func(r *ScenarioResult) error { return r.Fail(time.Second, errors.New("boom")) },
			wantStatus:   ResultFailed,
		},
		{
			name:         "cannot fail passed result",
			initialState: ResultPassed,
			transition:   func(r *ScenarioResult) error { return r.Fail(time.Second, errors.New("boom")) },
			wantStatus:   ResultPassed,
			wantErr:      true,
		},
		{
			name:         "skip pending result",
			initialState: ResultPending,
			transition:   func(r *ScenarioResult) error { return r.Skip("unsupported profile") },
			wantStatus:   ResultSkipped,
		},
		{
			name:         "cannot skip passed result",
			initialState: ResultPassed,
			transition:   func(r *ScenarioResult) error { return r.Skip("late") },
			wantStatus:   ResultPassed,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &ScenarioResult{ID: "test-id", Status: tt.initialState}

			err := tt.transition(result)
			if (err != nil) != tt.wantErr {
				t.Fatalf("transition error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, result.Status)
			}
		})
	}
}

func TestScenarioResult_FailKeepsErrorText(t *testing.T) {
	result, err := NewScenarioResult("run-1", "should logout", "webkit", 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := result.Fail(2*time.Second, errors.New("logged-in marker still visible")); err != nil {
		t.Fatal(err)
	}

	if result.Error != "logged-in marker still visible" {
		t.Errorf("Expected error text to be kept, got %q", result.Error)
	}
	if result.Duration != 2*time.Second {
		t.Errorf("Expected duration 2s, got %v", result.Duration)
	}
}

func TestScenarioResult_IsFlaky(t *testing.T) {
	tests := []struct {
		name    string
		status  ResultStatus
		attempt int
		want    bool
	}{
		{"passed first try", ResultPassed, 0, false},
		{"passed on retry", ResultPassed, 1, true},
		{"failed on retry", ResultFailed, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &ScenarioResult{Status: tt.status, Attempt: tt.attempt}
			if got := result.IsFlaky(); got != tt.want {
				t.Errorf("IsFlaky() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScenarioResult_AddArtifactIgnoresEmpty(t *testing.T) {
	result := &ScenarioResult{}
	result.AddArtifact("")
	result.AddArtifact("test-results/screenshots/a.png")

	if len(result.Artifacts) != 1 {
		t.Fatalf("Expected 1 artifact, got %d", len(result.Artifacts))
	}
}
