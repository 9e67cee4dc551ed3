package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// InstallPlaywright downloads the driver and the browsers for types.
func InstallPlaywright(types []BrowserType) error {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: names}); err != nil {
		return fmt.Errorf("failed to install playwright browsers: %w", err)
	}
	return nil
}

// PlaywrightEngine serves every profile through playwright-go. Browsers are
// launched on first use and shared by all sessions.
type PlaywrightEngine struct {
	headless bool

	mu       sync.Mutex
	pw       *playwright.Playwright
	browsers map[BrowserType]playwright.Browser
}

// NewPlaywrightEngine starts the playwright driver.
func NewPlaywrightEngine(headless bool) (*PlaywrightEngine, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &PlaywrightEngine{
		headless: headless,
		pw:       pw,
		browsers: make(map[BrowserType]playwright.Browser),
	}, nil
}

// Name implements Engine
func (e *PlaywrightEngine) Name() string { return "playwright" }

func (e *PlaywrightEngine) browser(t BrowserType) (playwright.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if b, ok := e.browsers[t]; ok {
		return b, nil
	}

	var bt playwright.BrowserType
	switch t {
	case Chromium:
		bt = e.pw.Chromium
	case Firefox:
		bt = e.pw.Firefox
	case WebKit:
		bt = e.pw.WebKit
	default:
		return nil, fmt.Errorf("%w: browser %s", ErrUnsupported, t)
	}

	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", t, err)
	}
	e.browsers[t] = b
	return b, nil
}

// NewSession opens a fresh browser context with one page.
func (e *PlaywrightEngine) NewSession(ctx context.Context, profile Profile, opts SessionOptions) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := e.browser(profile.Browser)
	if err != nil {
		return nil, err
	}

	viewport := opts.Viewport
	if profile.Viewport != (Size{}) {
		viewport = profile.Viewport
	}
	contextOpts := playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: viewport.Width, Height: viewport.Height},
		IgnoreHttpsErrors: playwright.Bool(opts.IgnoreHTTPSErrors),
	}
	if profile.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(profile.UserAgent)
	}
	if profile.DeviceScaleFactor > 0 {
		contextOpts.DeviceScaleFactor = playwright.Float(profile.DeviceScaleFactor)
	}
	// firefox rejects isMobile, so it is only sent when set
	if profile.IsMobile {
		contextOpts.IsMobile = playwright.Bool(true)
	}
	if profile.HasTouch {
		contextOpts.HasTouch = playwright.Bool(true)
	}
	if opts.VideoDir != "" {
		contextOpts.RecordVideo = &playwright.RecordVideo{
			Dir:  opts.VideoDir,
			Size: &playwright.Size{Width: viewport.Width, Height: viewport.Height},
		}
	}

	bctx, err := b.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if opts.DefaultTimeout > 0 {
		bctx.SetDefaultTimeout(millis(opts.DefaultTimeout))
	}

	if opts.Trace {
		err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			bctx.Close()
			return nil, fmt.Errorf("failed to start tracing: %w", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &playwrightSession{ctx: bctx, page: &playwrightPage{page: page}, tracing: opts.Trace}, nil
}

// Close shuts down every launched browser and the driver.
func (e *PlaywrightEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for t, b := range e.browsers {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", t, err))
		}
	}
	e.browsers = map[BrowserType]playwright.Browser{}
	if err := e.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightSession struct {
	ctx     playwright.BrowserContext
	page    *playwrightPage
	tracing bool
}

func (s *playwrightSession) Page() Page { return s.page }

func (s *playwrightSession) SaveTrace(path string) error {
	if !s.tracing {
		return errors.New("tracing was not started for this session")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	s.tracing = false
	return s.ctx.Tracing().Stop(path)
}

func (s *playwrightSession) VideoPath() (string, error) {
	video := s.page.page.Video()
	if video == nil {
		return "", errors.New("video was not recorded for this session")
	}
	return video.Path()
}

func (s *playwrightSession) Close() error {
	if s.tracing {
		s.ctx.Tracing().Stop()
		s.tracing = false
	}
	return s.ctx.Close()
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return &NavigationError{URL: url, Err: timeoutErr(err)}
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutFrom(ctx),
	})
	if err != nil {
		return &NavigationError{URL: url, Err: playwrightErr(err)}
	}
	return nil
}

func (p *playwrightPage) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", timeoutErr(err)
	}
	return p.page.Title()
}

func (p *playwrightPage) URL() string { return p.page.URL() }

func (p *playwrightPage) Element(sel Selector) Element {
	var opts playwright.PageLocatorOptions
	if sel.HasText != "" {
		opts.HasText = sel.HasText
	}
	return &playwrightElement{sel: sel, loc: p.page.Locator(sel.CSS, opts)}
}

func (p *playwrightPage) Evaluate(ctx context.Context, script string) error {
	if err := ctx.Err(); err != nil {
		return timeoutErr(err)
	}
	_, err := p.page.Evaluate(script)
	return playwrightErr(err)
}

func (p *playwrightPage) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return timeoutErr(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:    playwright.String(path),
		Timeout: timeoutFrom(ctx),
	})
	return playwrightErr(err)
}

func (p *playwrightPage) Close() error { return p.page.Close() }

type playwrightElement struct {
	sel Selector
	loc playwright.Locator
}

func (e *playwrightElement) act(ctx context.Context, action string, fn func(timeout *float64) error) error {
	if err := ctx.Err(); err != nil {
		return &ActionError{Action: action, Selector: e.sel, Err: timeoutErr(err)}
	}
	if err := fn(timeoutFrom(ctx)); err != nil {
		return &ActionError{Action: action, Selector: e.sel, Err: playwrightErr(err)}
	}
	return nil
}

func (e *playwrightElement) Fill(ctx context.Context, value string) error {
	return e.act(ctx, "fill", func(timeout *float64) error {
		return e.loc.Fill(value, playwright.LocatorFillOptions{Timeout: timeout})
	})
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return e.act(ctx, "click", func(timeout *float64) error {
		return e.loc.Click(playwright.LocatorClickOptions{Timeout: timeout})
	})
}

func (e *playwrightElement) Check(ctx context.Context) error {
	return e.act(ctx, "check", func(timeout *float64) error {
		return e.loc.Check(playwright.LocatorCheckOptions{Timeout: timeout})
	})
}

func (e *playwrightElement) SelectOption(ctx context.Context, value string) error {
	return e.act(ctx, "select", func(timeout *float64) error {
		_, err := e.loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}},
			playwright.LocatorSelectOptionOptions{Timeout: timeout})
		return err
	})
}

func (e *playwrightElement) InputValue(ctx context.Context) (string, error) {
	var v string
	err := e.act(ctx, "read value of", func(timeout *float64) error {
		var err error
		v, err = e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: timeout})
		return err
	})
	return v, err
}

func (e *playwrightElement) TextContent(ctx context.Context) (string, error) {
	var v string
	err := e.act(ctx, "read text of", func(timeout *float64) error {
		var err error
		v, err = e.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: timeout})
		return err
	})
	return v, err
}

func (e *playwrightElement) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, timeoutErr(err)
	}
	visible, err := e.loc.IsVisible()
	if err != nil {
		return false, &ActionError{Action: "check visibility of", Selector: e.sel, Err: playwrightErr(err)}
	}
	return visible, nil
}

func (e *playwrightElement) ScrollIntoView(ctx context.Context) error {
	return e.act(ctx, "scroll to", func(timeout *float64) error {
		return e.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{Timeout: timeout})
	})
}

// timeoutFrom converts the context deadline into playwright's millisecond
// timeout. Without a deadline the context's default timeout applies.
func timeoutFrom(ctx context.Context) *float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	remaining := time.Until(deadline)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return playwright.Float(millis(remaining))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func playwrightErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
