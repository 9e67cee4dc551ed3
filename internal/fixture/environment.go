// Package fixture provides scenarios with their browser session, page
// representations and account tracking, and runs them with retries and
// artifact capture.
package fixture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/api"
	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/config"
	"github.com/qaforge/exercise-e2e/internal/database"
	"github.com/qaforge/exercise-e2e/internal/logging"
	"github.com/qaforge/exercise-e2e/internal/models"
	"github.com/qaforge/exercise-e2e/internal/report"
	"github.com/qaforge/exercise-e2e/internal/repository"
)

// Options override the collaborators NewEnvironment would otherwise build
// from the configuration.
type Options struct {
	Engine browser.Engine
	Ledger Ledger
	Sink   report.Sink
	API    api.Client
	// Out receives the list reporter lines. Defaults to stdout.
	Out    io.Writer
	Logger *log.Logger
}

// Environment is the process-wide state shared by every scenario: the
// configuration, the browser engine, the recorder, the account ledger and
// the API client.
type Environment struct {
	Config   *config.Config
	Engine   browser.Engine
	Recorder *report.Recorder
	Ledger   Ledger
	API      *api.Methods
	Logger   *log.Logger

	profiles []browser.Profile
	closers  []io.Closer
}

// NewEnvironment builds the environment for cfg. Postgres is used for the
// ledger and run history when cfg.Postgres is set.
func NewEnvironment(ctx context.Context, cfg *config.Config, opts Options) (*Environment, error) {
	profiles, err := browser.Profiles(cfg.Projects)
	if err != nil {
		return nil, err
	}

	env := &Environment{Config: cfg, profiles: profiles, Logger: opts.Logger}
	if env.Logger == nil {
		env.Logger = &log.DefaultLogger
	}

	fail := func(err error) (*Environment, error) {
		env.closeAll()
		return nil, err
	}

	env.Engine = opts.Engine
	if env.Engine == nil {
		engine, err := NewEngine(cfg)
		if err != nil {
			return fail(err)
		}
		env.Engine = engine
	}

	sink := opts.Sink
	env.Ledger = opts.Ledger
	if cfg.Postgres != nil && (sink == nil || env.Ledger == nil) {
		db, err := openDatabase(cfg.Postgres)
		if err != nil {
			return fail(err)
		}
		env.closers = append(env.closers, db)
		if sink == nil {
			sink = repository.NewRunRepository(db)
		}
		if env.Ledger == nil {
			env.Ledger = repository.NewAccountRepository(db)
		}
	}
	if env.Ledger == nil {
		env.Ledger = NewMemoryLedger()
	}

	client := opts.API
	if client == nil {
		apiLogger, closer, err := newAPILogger(cfg)
		if err != nil {
			return fail(err)
		}
		env.closers = append(env.closers, closer)
		client = api.NewHTTPClient(cfg.APIBaseURL,
			api.WithLogger(apiLogger),
			api.WithRateLimit(cfg.APIRateLimit),
		)
	}
	env.API = api.NewMethods(client)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	run := models.NewRun(cfg.BaseURL, env.Engine.Name())
	env.Recorder = report.NewRecorder(run, report.Options{
		Out:       out,
		JUnitFile: cfg.JUnitFile(),
		HTMLDir:   cfg.ReportDir(),
		Sink:      sink,
		Logger:    env.Logger,
	})
	if err := env.Recorder.Start(ctx); err != nil {
		return fail(err)
	}

	env.Logger.Info().
		Str("run_id", run.ID).
		Str("base_url", cfg.BaseURL).
		Str("engine", env.Engine.Name()).
		Strs("projects", cfg.Projects).
		Int("retries", cfg.Retries).
		Msg("test environment ready")
	return env, nil
}

// NewEngine creates the engine selected by cfg.Engine.
func NewEngine(cfg *config.Config) (browser.Engine, error) {
	switch cfg.Engine {
	case config.EngineRod:
		return browser.NewRodEngine(cfg.Headless), nil
	case config.EnginePlaywright, "":
		engine, err := browser.NewPlaywrightEngine(cfg.Headless)
		if err != nil {
			return nil, fmt.Errorf("failed to start playwright: %w", err)
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
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

// newAPILogger logs API traffic to the console and to a daily file under
// the API log directory.
func newAPILogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	path := filepath.Join(cfg.APILogDir, "api_requests_"+time.Now().Format("20060102")+".log")
	file, closer, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(cfg.LogLevel, logging.Console(os.Stderr), file), closer, nil
}

// Profiles returns the execution profiles selected by the configuration.
func (e *Environment) Profiles() []browser.Profile {
	return append([]browser.Profile(nil), e.profiles...)
}

// Close finishes the run, writes the reports and releases the engine and
// every other resource. The summary is valid even when an error is returned.
func (e *Environment) Close(ctx context.Context) (report.Summary, error) {
	summary, err := e.Recorder.Finish(ctx)
	return summary, errors.Join(err, e.closeAll())
}

func (e *Environment) closeAll() error {
	var errs []error
	if e.Engine != nil {
		if err := e.Engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close engine: %w", err))
		}
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
