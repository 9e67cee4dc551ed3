package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/models"
)

// artifactTimeout bounds screenshot, trace and cleanup work after an attempt.
const artifactTimeout = 15 * time.Second

// Execute runs scenario on profile with the configured retries. Every
// attempt gets a fresh Fixture bounded by the test timeout and is recorded.
// The returned result is the last attempt; the error is its failure, or an
// error wrapping browser.ErrUnsupported when the engine cannot run profile.
func (e *Environment) Execute(ctx context.Context, name string, profile browser.Profile, scenario Scenario) (*models.ScenarioResult, error) {
	run := e.Recorder.Run()

	for attempt := 0; ; attempt++ {
		res, err := models.NewScenarioResult(run.ID, name, profile.Name, attempt)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		runErr := e.attempt(ctx, res, profile, scenario)

		if err := settle(res, time.Since(start), runErr); err != nil {
			e.Logger.Error().Err(err).Str("scenario", name).Str("profile", profile.Name).Int("attempt", attempt).Msg("failed to settle result")
		}
		e.Recorder.Record(ctx, res)

		if runErr == nil || errors.Is(runErr, browser.ErrUnsupported) || attempt >= e.Config.Retries || ctx.Err() != nil {
			return res, runErr
		}
		e.Logger.Warn().Err(runErr).Str("scenario", name).Str("profile", profile.Name).Int("attempt", attempt).Msg("scenario failed, retrying")
	}
}

// settle moves res out of pending according to the outcome of its attempt.
func settle(res *models.ScenarioResult, d time.Duration, runErr error) error {
	switch {
	case runErr == nil:
		return res.Pass(d)
	case errors.Is(runErr, browser.ErrUnsupported):
		return res.Skip(runErr.Error())
	default:
		return res.Fail(d, runErr)
	}
}

func (e *Environment) attempt(ctx context.Context, res *models.ScenarioResult, profile browser.Profile, scenario Scenario) (err error) {
	cfg := e.Config
	stem := artifactStem(res.Scenario, profile.Name, res.Attempt)

	opts := browser.SessionOptions{
		Viewport:          browser.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		IgnoreHTTPSErrors: cfg.IgnoreHTTPSErrors,
		DefaultTimeout:    cfg.ActionTimeout.Std(),
		Trace:             cfg.Trace.Record(res.Attempt),
	}
	if cfg.Video.Record(res.Attempt) {
		opts.VideoDir = filepath.Join(cfg.VideoDir(), stem)
	}

	testCtx, cancel := context.WithTimeout(ctx, cfg.TestTimeout.Std())
	defer cancel()

	session, err := e.Engine.NewSession(testCtx, profile, opts)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	f := e.newFixture(res.Scenario, profile, res.Attempt, session)

	defer func() {
		e.teardown(ctx, f, res, opts, err != nil)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scenario panicked: %v", r)
		}
	}()

	f.Logger.Debug().Msg("scenario started")
	if err := scenario(testCtx, f); err != nil {
		return err
	}
	return nil
}

// teardown captures the artifacts the configured modes keep, removes
// leftover accounts and closes the session.
func (e *Environment) teardown(parent context.Context, f *Fixture, res *models.ScenarioResult, opts browser.SessionOptions, failed bool) {
	cfg := e.Config
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), artifactTimeout)
	defer cancel()

	stem := artifactStem(res.Scenario, f.Profile.Name, res.Attempt)

	if cfg.Screenshot.Keep(res.Attempt, failed) {
		path, err := f.Base.CaptureScreenshot(ctx, stem)
		if err != nil {
			f.Logger.Warn().Err(err).Msg("failed to capture screenshot")
		} else {
			res.AddArtifact(path)
		}
	}

	if opts.Trace && cfg.Trace.Keep(res.Attempt, failed) {
		path := filepath.Join(cfg.TraceDir(), stem+".zip")
		if err := f.Session.SaveTrace(path); err != nil {
			logUnsupported(f, err, "failed to save trace")
		} else {
			res.AddArtifact(path)
		}
	}

	if err := f.Accounts.Cleanup(ctx); err != nil {
		f.Logger.Warn().Err(err).Msg("leftover accounts could not all be removed")
	}

	var video string
	if opts.VideoDir != "" {
		path, err := f.Session.VideoPath()
		if err != nil {
			logUnsupported(f, err, "failed to locate video")
		}
		video = path
	}

	if err := f.Session.Close(); err != nil {
		f.Logger.Warn().Err(err).Msg("failed to close session")
	}

	if opts.VideoDir != "" {
		if video != "" && cfg.Video.Keep(res.Attempt, failed) {
			res.AddArtifact(video)
		} else if err := os.RemoveAll(opts.VideoDir); err != nil {
			f.Logger.Warn().Err(err).Msg("failed to discard video")
		}
	}
}

func logUnsupported(f *Fixture, err error, msg string) {
	if errors.Is(err, browser.ErrUnsupported) {
		f.Logger.Debug().Err(err).Msg(msg)
		return
	}
	f.Logger.Warn().Err(err).Msg(msg)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// artifactStem names the artifacts of one attempt, e.g.
// "register-user-mobile-chrome-retry1".
func artifactStem(scenario, profile string, attempt int) string {
	slug := func(s string) string {
		return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	}
	return fmt.Sprintf("%s-%s-retry%d", slug(scenario), slug(profile), attempt)
}
