package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/phuslu/log"
	"github.com/urfave/cli/v2"

	"github.com/qaforge/exercise-e2e/internal/api"
	"github.com/qaforge/exercise-e2e/internal/browser"
	internalcli "github.com/qaforge/exercise-e2e/internal/cli"
	"github.com/qaforge/exercise-e2e/internal/config"
	"github.com/qaforge/exercise-e2e/internal/database"
	"github.com/qaforge/exercise-e2e/internal/fixture"
	"github.com/qaforge/exercise-e2e/internal/handlers"
	"github.com/qaforge/exercise-e2e/internal/models"
	"github.com/qaforge/exercise-e2e/internal/repository"
	"github.com/qaforge/exercise-e2e/internal/testdata"
)

// errNoLedger is returned by commands that need the Postgres account ledger.
var errNoLedger = errors.New("account ledger requires POSTGRES_* to be configured")

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and the browsers of the configured projects",
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			profiles, err := browser.Profiles(cfg.Projects)
			if err != nil {
				return err
			}
			types := browser.BrowserTypes(profiles)
			log.Info().Strs("projects", cfg.Projects).Msg("installing browsers")
			return browser.InstallPlaywright(types)
		},
	}
}

// GenerateCommand returns the generate command
func GenerateCommand() *cli.Command {
	seed := &cli.Uint64Flag{Name: "seed", Usage: "seed for reproducible output (0 picks a random seed)"}
	generator := func(c *cli.Context) *testdata.Generator {
		return testdata.NewWithSeed(c.Uint64("seed"))
	}

	return &cli.Command{
		Name:  "generate",
		Usage: "Print generated test data as JSON",
		Subcommands: []*cli.Command{
			{
				Name:  "user",
				Usage: "Generate a user record",
				Flags: []cli.Flag{seed},
				Action: func(c *cli.Context) error {
					return writeJSON(c.App.Writer, generator(c).User())
				},
			},
			{
				Name:  "payment",
				Usage: "Generate payment details",
				Flags: []cli.Flag{seed},
				Action: func(c *cli.Context) error {
					return writeJSON(c.App.Writer, generator(c).Payment())
				},
			},
		},
	}
}

// ShowReportCommand returns the show-report command
func ShowReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "show-report",
		Usage: "Serve the HTML report, artifacts and run history",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "templates", Value: "templates", Usage: "directory holding runs.html and run.html"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)

			outputDir, err := filepath.Abs(cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("failed to resolve output dir: %w", err)
			}
			cfg.OutputDir = outputDir

			var store handlers.RunStore
			if cfg.Postgres != nil {
				db, err := openDatabase(cfg.Postgres)
				if err != nil {
					return err
				}
				defer db.Close()
				store = repository.NewRunRepository(db)
			}

			runList, err := handlers.NewRunListHandler(filepath.Join(c.String("templates"), "runs.html"), store)
			if err != nil {
				return fmt.Errorf("failed to create run list handler: %w", err)
			}
			runDetail, err := handlers.NewRunDetailHandler(filepath.Join(c.String("templates"), "run.html"), store, outputDir)
			if err != nil {
				return fmt.Errorf("failed to create run detail handler: %w", err)
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig:     cfg.Server,
				RunListHandler:   runList,
				RunDetailHandler: runDetail,
				ReportDir:        cfg.ReportDir(),
				OutputDir:        outputDir,
			})
		},
	}
}

// CleanupCommand returns the cleanup command
func CleanupCommand() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Delete every account the ledger still lists as active",
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if cfg.Postgres == nil {
				return errNoLedger
			}

			db, err := openDatabase(cfg.Postgres)
			if err != nil {
				return err
			}
			defer db.Close()

			removed, err := fixture.CleanupLedger(c.Context, newAPI(cfg), repository.NewAccountRepository(db), &log.DefaultLogger)
			fmt.Fprintf(c.App.Writer, "%d account(s) removed\n", removed)
			return err
		},
	}
}

// AccountCommand returns the account command
func AccountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Create or delete a site account through the API",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Register a generated user and print it as JSON",
				Action: func(c *cli.Context) error {
					cfg := configFrom(c)
					user := testdata.GenerateRandomUser()
					if err := createAccount(c.Context, newAPI(cfg), user); err != nil {
						return err
					}
					recordInLedger(c.Context, cfg, user)
					return writeJSON(c.App.Writer, user)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete the account with the given credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					cfg := configFrom(c)
					resp, err := newAPI(cfg).DeleteAccount(c.Context, c.String("email"), c.String("password"))
					if err != nil {
						return err
					}
					if err := resp.Expect(api.CodeOK); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, resp.Message)
					return nil
				},
			},
		},
	}
}

func createAccount(ctx context.Context, methods *api.Methods, user models.UserRecord) error {
	resp, err := methods.CreateAccount(ctx, user)
	if err != nil {
		return err
	}
	return resp.Expect(api.CodeCreated)
}

// recordInLedger adds a CLI-created account to the ledger when one is
// configured, so cleanup finds it.
func recordInLedger(ctx context.Context, cfg *config.Config, user models.UserRecord) {
	if cfg.Postgres == nil {
		return
	}
	db, err := openDatabase(cfg.Postgres)
	if err != nil {
		log.Warn().Err(err).Msg("account not recorded in ledger")
		return
	}
	defer db.Close()

	acct, err := models.NewAccount(user, "cli", "api")
	if err == nil {
		err = repository.NewAccountRepository(db).RecordCreated(ctx, acct)
	}
	if err != nil {
		log.Warn().Err(err).Msg("account not recorded in ledger")
	}
}

func newAPI(cfg *config.Config) *api.Methods {
	return api.NewMethods(api.NewHTTPClient(cfg.APIBaseURL, api.WithRateLimit(cfg.APIRateLimit)))
}

func openDatabase(pg *config.PostgresConfig) (*sql.DB, error) {
	db, err := database.Connect(pg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return db, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
