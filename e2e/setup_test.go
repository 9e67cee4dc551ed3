package e2e

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/config"
	"github.com/qaforge/exercise-e2e/internal/fixture"
	"github.com/qaforge/exercise-e2e/internal/logging"
)

var env *fixture.Environment

// TestMain builds the shared environment, runs every scenario and writes the
// reports. Scenarios run against the live site; -short skips them.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Println("skipping end-to-end scenarios in short mode")
		os.Exit(0)
	}

	// Load environment variables from .env file
	if err := godotenv.Load(filepath.Join("..", ".env")); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, os.Stderr)

	// go test runs in the package directory; artifacts belong at the repo root.
	for _, dir := range []*string{&cfg.OutputDir, &cfg.APILogDir} {
		if filepath.IsAbs(*dir) {
			continue
		}
		abs, err := filepath.Abs(filepath.Join("..", *dir))
		if err != nil {
			log.Fatal().Err(err).Str("dir", *dir).Msg("failed to resolve directory")
		}
		*dir = abs
	}

	if cfg.Workers > 0 {
		if err := flag.Set("test.parallel", strconv.Itoa(cfg.Workers)); err != nil {
			log.Warn().Err(err).Int("workers", cfg.Workers).Msg("failed to apply worker count")
		}
	}

	ctx := context.Background()
	env, err = fixture.NewEnvironment(ctx, cfg, fixture.Options{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create test environment")
		os.Exit(1)
	}

	code := m.Run()

	summary, err := env.Close(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to close test environment")
		if code == 0 {
			code = 1
		}
	}
	if !summary.OK() && code == 0 {
		code = 1
	}
	os.Exit(code)
}
