// Package config builds the single configuration object the suite runs with.
// Values are layered: built-in defaults, then an optional TOML file named by
// E2E_CONFIG, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Engines
const (
	EnginePlaywright = "playwright"
	EngineRod        = "rod"
)

// DefaultProjects are the profiles a run covers when none are selected.
var DefaultProjects = []string{"chromium", "firefox", "webkit", "Mobile Chrome", "Mobile Safari"}

// Duration is a time.Duration that reads "30s" style strings from TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Viewport is the desktop browser window size.
type Viewport struct {
	Width  int `toml:"width" validate:"min=1"`
	Height int `toml:"height" validate:"min=1"`
}

// Config is the suite configuration. It is built once at process start and
// passed down explicitly.
type Config struct {
	BaseURL    string `toml:"base_url" validate:"required,url"`
	APIBaseURL string `toml:"api_base_url" validate:"required,url"`

	CI            bool     `toml:"ci"`
	Engine        string   `toml:"engine" validate:"oneof=playwright rod"`
	Projects      []string `toml:"projects" validate:"min=1,dive,oneof=chromium firefox webkit 'Mobile Chrome' 'Mobile Safari'"`
	FullyParallel bool     `toml:"fully_parallel"`
	Retries       int      `toml:"retries" validate:"min=0,max=10"`
	// Workers of 0 leaves go test's default parallelism alone.
	Workers int `toml:"workers" validate:"min=0"`

	TestTimeout   Duration `toml:"test_timeout" validate:"gt=0"`
	ExpectTimeout Duration `toml:"expect_timeout" validate:"gt=0"`
	ActionTimeout Duration `toml:"action_timeout" validate:"gt=0"`
	PollInterval  Duration `toml:"poll_interval" validate:"gt=0"`

	Headless          bool     `toml:"headless"`
	Viewport          Viewport `toml:"viewport"`
	IgnoreHTTPSErrors bool     `toml:"ignore_https_errors"`

	Trace      ArtifactMode `toml:"trace" validate:"artifact_mode"`
	Screenshot ArtifactMode `toml:"screenshot" validate:"artifact_mode"`
	Video      ArtifactMode `toml:"video" validate:"artifact_mode"`

	OutputDir string `toml:"output_dir" validate:"required"`
	APILogDir string `toml:"api_log_dir" validate:"required"`

	LogLevel string `toml:"log_level" validate:"oneof=trace debug info warn error"`
	// APIRateLimit is requests per second against the API; 0 disables limiting.
	APIRateLimit float64 `toml:"api_rate_limit" validate:"min=0"`

	Server   ServerConfig    `toml:"server"`
	Postgres *PostgresConfig `toml:"-"`
}

// ScreenshotDir holds screenshots taken by scenarios and on failure.
func (c *Config) ScreenshotDir() string { return filepath.Join(c.OutputDir, "screenshots") }

// TraceDir holds trace archives.
func (c *Config) TraceDir() string { return filepath.Join(c.OutputDir, "traces") }

// VideoDir holds recorded videos.
func (c *Config) VideoDir() string { return filepath.Join(c.OutputDir, "videos") }

// ReportDir holds the HTML report.
func (c *Config) ReportDir() string { return filepath.Join(c.OutputDir, "html-report") }

// JUnitFile is the path of the JUnit XML report.
func (c *Config) JUnitFile() string { return filepath.Join(c.OutputDir, "junit-report.xml") }

// Default returns the built-in configuration. Retries and workers depend on
// whether the process runs in CI.
func Default(ci bool) *Config {
	cfg := &Config{
		BaseURL:           "https://www.automationexercise.com",
		APIBaseURL:        "https://www.automationexercise.com/api",
		CI:                ci,
		Engine:            EnginePlaywright,
		Projects:          append([]string(nil), DefaultProjects...),
		FullyParallel:     true,
		TestTimeout:       Duration(30 * time.Second),
		ExpectTimeout:     Duration(5 * time.Second),
		ActionTimeout:     Duration(10 * time.Second),
		PollInterval:      Duration(100 * time.Millisecond),
		Headless:          true,
		Viewport:          Viewport{Width: 1280, Height: 720},
		IgnoreHTTPSErrors: true,
		Trace:             ArtifactOnFirstRetry,
		Screenshot:        ArtifactOnlyOnFailure,
		Video:             ArtifactOnFirstRetry,
		OutputDir:         "test-results",
		APILogDir:         "logs",
		LogLevel:          "info",
		Server:            ServerConfig{Port: DefaultReportPort},
	}
	if ci {
		cfg.Retries = 2
		cfg.Workers = 1
	}
	return cfg
}

// Load builds the configuration from defaults, the optional E2E_CONFIG file,
// and environment variables read through getenv.
func Load(getenv func(string) string) (*Config, error) {
	ci, err := parseBool("CI", getenv("CI"), false)
	if err != nil {
		return nil, err
	}
	cfg := Default(ci)

	if path := getenv("E2E_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	pg, err := LoadPostgresConfig(getenv)
	switch {
	case errors.Is(err, ErrPostgresNotConfigured):
	case err != nil:
		return nil, fmt.Errorf("failed to load postgres config: %w", err)
	default:
		cfg.Postgres = pg
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("BASE_URL"); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv("API_BASE_URL"); v != "" {
		c.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv("E2E_ENGINE"); v != "" {
		c.Engine = strings.ToLower(v)
	}
	if v := getenv("E2E_PROJECTS"); v != "" {
		c.Projects = splitList(v)
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}

	var err error
	if c.Retries, err = parseInt("RETRIES", getenv("RETRIES"), c.Retries); err != nil {
		return err
	}
	if c.Workers, err = parseInt("WORKERS", getenv("WORKERS"), c.Workers); err != nil {
		return err
	}
	if c.Headless, err = parseBool("HEADLESS", getenv("HEADLESS"), c.Headless); err != nil {
		return err
	}
	if c.FullyParallel, err = parseBool("FULLY_PARALLEL", getenv("FULLY_PARALLEL"), c.FullyParallel); err != nil {
		return err
	}
	if c.TestTimeout, err = parseDuration("TEST_TIMEOUT", getenv("TEST_TIMEOUT"), c.TestTimeout); err != nil {
		return err
	}
	if c.ExpectTimeout, err = parseDuration("EXPECT_TIMEOUT", getenv("EXPECT_TIMEOUT"), c.ExpectTimeout); err != nil {
		return err
	}
	if c.ActionTimeout, err = parseDuration("ACTION_TIMEOUT", getenv("ACTION_TIMEOUT"), c.ActionTimeout); err != nil {
		return err
	}
	if v := getenv("API_RATE_LIMIT"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid API_RATE_LIMIT %q: %w", v, err)
		}
		c.APIRateLimit = rate
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("artifact_mode", func(fl validator.FieldLevel) bool {
		return ArtifactMode(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("config: failed to register artifact_mode validation: %v", err))
	}
	return v
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(name, v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return n, nil
}

func parseBool(name, v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return b, nil
}

func parseDuration(name, v string, def Duration) (Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// bare numbers are milliseconds
		ms, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		d = time.Duration(ms) * time.Millisecond
	}
	return Duration(d), nil
}
