package fixture

import (
	"context"

	"github.com/phuslu/log"

	"github.com/qaforge/exercise-e2e/internal/api"
	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/pages"
)

// Scenario is one end-to-end script. It returns the first failure.
type Scenario func(ctx context.Context, f *Fixture) error

// Fixture is the scenario-scoped state of one attempt. It owns exactly one
// browser session and is never shared.
type Fixture struct {
	Name    string
	Profile browser.Profile
	Attempt int

	Session browser.Session
	Page    browser.Page
	Base    *pages.Base
	Home    *pages.HomePage
	Login   *pages.LoginSignupPage
	Signup  *pages.SignupPage

	Accounts *Accounts
	API      *api.Methods
	Logger   *log.Logger

	expect browser.WaitPolicy
}

func (e *Environment) newFixture(name string, profile browser.Profile, attempt int, session browser.Session) *Fixture {
	cfg := e.Config
	base := pages.NewBase(session.Page(), pages.Options{
		BaseURL:       cfg.BaseURL,
		ScreenshotDir: cfg.ScreenshotDir(),
		Action:        browser.WaitPolicy{Timeout: cfg.ActionTimeout.Std(), Interval: cfg.PollInterval.Std()},
		Expect:        browser.WaitPolicy{Timeout: cfg.ExpectTimeout.Std(), Interval: cfg.PollInterval.Std()},
	})

	logger := *e.Logger
	logger.Context = log.NewContext(nil).Str("scenario", name).Str("profile", profile.Name).Int("attempt", attempt).Value()

	return &Fixture{
		Name:     name,
		Profile:  profile,
		Attempt:  attempt,
		Session:  session,
		Page:     session.Page(),
		Base:     base,
		Home:     pages.NewHomePage(base),
		Login:    pages.NewLoginSignupPage(base),
		Signup:   pages.NewSignupPage(base),
		Accounts: newAccounts(e.Ledger, e.API, &logger, name, profile.Name),
		API:      e.API,
		Logger:   &logger,
		expect:   browser.WaitPolicy{Timeout: cfg.ExpectTimeout.Std(), Interval: cfg.PollInterval.Std()},
	}
}

// Eventually polls probe until it holds, bounded by the assertion timeout.
// Page probes check once; scenarios wait on them through Eventually.
func (f *Fixture) Eventually(ctx context.Context, probe func(ctx context.Context) (bool, error), what string) error {
	if err := f.expect.Poll(ctx, probe); err != nil {
		return &browser.AssertionError{Assertion: "to hold", Target: what, Err: err}
	}
	return nil
}
