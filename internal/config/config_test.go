package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envMap(nil))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.BaseURL != "https://www.automationexercise.com" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.TestTimeout.Std() != 30*time.Second {
		t.Errorf("TestTimeout = %v, want 30s", cfg.TestTimeout.Std())
	}
	if cfg.ExpectTimeout.Std() != 5*time.Second {
		t.Errorf("ExpectTimeout = %v, want 5s", cfg.ExpectTimeout.Std())
	}
	if cfg.ActionTimeout.Std() != 10*time.Second {
		t.Errorf("ActionTimeout = %v, want 10s", cfg.ActionTimeout.Std())
	}
	if cfg.Retries != 0 || cfg.Workers != 0 {
		t.Errorf("local run should not retry or pin workers, got retries=%d workers=%d", cfg.Retries, cfg.Workers)
	}
	if len(cfg.Projects) != 5 {
		t.Errorf("expected 5 projects, got %v", cfg.Projects)
	}
	if cfg.Postgres != nil {
		t.Error("Postgres should be nil when POSTGRES_* is unset")
	}
	if cfg.JUnitFile() != filepath.Join("test-results", "junit-report.xml") {
		t.Errorf("JUnitFile = %s", cfg.JUnitFile())
	}
}

func TestLoad_CI(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{"CI": "true"}))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.Retries)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		"CI":             "1",
		"RETRIES":        "0",
		"BASE_URL":       "http://localhost:8080/",
		"E2E_ENGINE":     "ROD",
		"E2E_PROJECTS":   "chromium, Mobile Chrome",
		"ACTION_TIMEOUT": "2500",
		"HEADLESS":       "false",
		"API_RATE_LIMIT": "4",
		"PORT":           "9000",
	}))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Retries != 0 {
		t.Errorf("RETRIES should override CI default, got %d", cfg.Retries)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.Engine != EngineRod {
		t.Errorf("Engine = %s", cfg.Engine)
	}
	if len(cfg.Projects) != 2 || cfg.Projects[1] != "Mobile Chrome" {
		t.Errorf("Projects = %v", cfg.Projects)
	}
	if cfg.ActionTimeout.Std() != 2500*time.Millisecond {
		t.Errorf("ActionTimeout = %v", cfg.ActionTimeout.Std())
	}
	if cfg.Headless {
		t.Error("Headless should be false")
	}
	if cfg.APIRateLimit != 4 {
		t.Errorf("APIRateLimit = %v", cfg.APIRateLimit)
	}
	if cfg.Server.Addr() != ":9000" {
		t.Errorf("Server.Addr() = %s", cfg.Server.Addr())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown engine", map[string]string{"E2E_ENGINE": "selenium"}},
		{"unknown project", map[string]string{"E2E_PROJECTS": "chromium,netscape"}},
		{"bad retries", map[string]string{"RETRIES": "many"}},
		{"negative retries", map[string]string{"RETRIES": "-1"}},
		{"bad timeout", map[string]string{"TEST_TIMEOUT": "soon"}},
		{"bad CI", map[string]string{"CI": "perhaps"}},
		{"bad base url", map[string]string{"BASE_URL": "not a url"}},
		{"partial postgres", map[string]string{"POSTGRES_USER": "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(envMap(tt.env)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e2e.toml")
	content := `
base_url = "https://staging.example.com"
engine = "rod"
projects = ["chromium"]
retries = 1
test_timeout = "45s"
trace = "retain-on-failure"

[viewport]
width = 1920
height = 1080
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envMap(map[string]string{
		"E2E_CONFIG": path,
		"RETRIES":    "3",
	}))
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.BaseURL != "https://staging.example.com" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.Engine != EngineRod {
		t.Errorf("Engine = %s", cfg.Engine)
	}
	if cfg.TestTimeout.Std() != 45*time.Second {
		t.Errorf("TestTimeout = %v", cfg.TestTimeout.Std())
	}
	if cfg.Trace != ArtifactRetainOnFailure {
		t.Errorf("Trace = %s", cfg.Trace)
	}
	if cfg.Viewport.Width != 1920 {
		t.Errorf("Viewport = %+v", cfg.Viewport)
	}
	if cfg.Retries != 3 {
		t.Errorf("environment should win over file, got retries=%d", cfg.Retries)
	}
	// untouched keys keep their defaults
	if cfg.ExpectTimeout.Std() != 5*time.Second {
		t.Errorf("ExpectTimeout = %v", cfg.ExpectTimeout.Std())
	}
}

func TestLoad_FileInvalidMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e2e.toml")
	if err := os.WriteFile(path, []byte(`video = "sometimes"`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(envMap(map[string]string{"E2E_CONFIG": path})); err == nil {
		t.Error("Load() expected error for unknown artifact mode")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(envMap(map[string]string{"E2E_CONFIG": "/nonexistent/e2e.toml"})); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestNewValidator_ArtifactMode(t *testing.T) {
	type target struct {
		Mode ArtifactMode `validate:"artifact_mode"`
	}

	v := newValidator()
	if err := v.Struct(target{Mode: ArtifactOnFirstRetry}); err != nil {
		t.Errorf("Expected %q to be valid, got %v", ArtifactOnFirstRetry, err)
	}
	if err := v.Struct(target{Mode: "sometimes"}); err == nil {
		t.Error("Expected unknown artifact mode to be rejected")
	}
}
