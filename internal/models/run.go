package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents the outcome of one scenario attempt
type ResultStatus string

// Result statuses
const (
	ResultPending ResultStatus = "pending"
	ResultPassed  ResultStatus = "passed"
	ResultFailed  ResultStatus = "failed"
	ResultSkipped ResultStatus = "skipped"
)

// Run groups every scenario attempt made by one test process.
type Run struct {
	ID         string
	BaseURL    string
	Engine     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun starts a run against baseURL.
func NewRun(baseURL, engine string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		BaseURL:   baseURL,
		Engine:    engine,
		StartedAt: time.Now(),
	}
}

// ScenarioResult is the outcome of one attempt of one scenario on one profile.
type ScenarioResult struct {
	ID        string
	RunID     string
	Scenario  string
	Profile   string
	Attempt   int
	Status    ResultStatus
	Duration  time.Duration
	Error     string
	Artifacts []string
	StartedAt time.Time
}

// NewScenarioResult creates a pending result for the given attempt (0-based).
func NewScenarioResult(runID, scenario, profile string, attempt int) (*ScenarioResult, error) {
	if scenario == "" {
		return nil, ErrEmptyScenario
	}
	if profile == "" {
		return nil, ErrEmptyProfile
	}

	return &ScenarioResult{
		ID:        uuid.New().String(),
		RunID:     runID,
		Scenario:  scenario,
		Profile:   profile,
		Attempt:   attempt,
		Status:    ResultPending,
		StartedAt: time.Now(),
	}, nil
}

// Pass marks the attempt as passed
func (r *ScenarioResult) Pass(d time.Duration) error {
	if r.Status != ResultPending {
		return fmt.Errorf("%w: cannot pass result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = ResultPassed
	r.Duration = d
	return nil
}

// Fail marks the attempt as failed and keeps the error text
func (r *ScenarioResult) Fail(d time.Duration, cause error) error {
	if r.Status == ResultPassed || r.Status == ResultSkipped {
		return fmt.Errorf("%w: cannot fail result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = ResultFailed
	r.Duration = d
	if cause != nil {
		r.Error = cause.Error()
	}
	return nil
}

// Skip marks the attempt as skipped
func (r *ScenarioResult) Skip(reason string) error {
	if r.Status != ResultPending {
		return fmt.Errorf("%w: cannot skip result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = ResultSkipped
	r.Error = reason
	return nil
}

// AddArtifact records the path of a file produced by the attempt.
func (r *ScenarioResult) AddArtifact(path string) {
	if path == "" {
		return
	}
	r.Artifacts = append(r.Artifacts, path)
}

// IsFlaky returns true if the scenario only passed after a retry
func (r *ScenarioResult) IsFlaky() bool {
	return r.Status == ResultPassed && r.Attempt > 0
}

// Key identifies the scenario/profile pair across attempts.
func (r *ScenarioResult) Key() string {
	return r.Profile + " › " + r.Scenario
}
