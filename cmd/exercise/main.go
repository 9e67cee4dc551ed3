package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/urfave/cli/v2"

	"github.com/qaforge/exercise-e2e/internal/config"
	"github.com/qaforge/exercise-e2e/internal/logging"
)

var version = "0.1.0"

// configKey stores the loaded configuration in the app metadata.
const configKey = "config"

func loadConfig(c *cli.Context) error {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	logging.Setup(cfg.LogLevel, os.Stderr)
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata[configKey].(*config.Config)
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "exercise",
		Usage:   "Tooling for the automationexercise end-to-end suite",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error (overrides LOG_LEVEL)",
			},
		},
		Metadata: map[string]interface{}{},
		Before:   loadConfig,
		Commands: []*cli.Command{
			InstallCommand(),
			GenerateCommand(),
			ShowReportCommand(),
			CleanupCommand(),
			AccountCommand(),
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
