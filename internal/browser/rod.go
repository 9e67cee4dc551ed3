package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodEngine drives Chromium over the DevTools protocol with go-rod. It serves
// chromium-based profiles only and records neither traces nor videos.
type RodEngine struct {
	headless bool

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodEngine creates an engine. Chromium is launched on the first session.
func NewRodEngine(headless bool) *RodEngine {
	return &RodEngine{headless: headless}
}

// Name implements Engine
func (e *RodEngine) Name() string { return "rod" }

func (e *RodEngine) connect() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		return e.browser, nil
	}

	u, err := launcher.New().Headless(e.headless).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to chromium: %w", err)
	}
	e.browser = b
	return b, nil
}

// NewSession opens an incognito context with one page.
func (e *RodEngine) NewSession(ctx context.Context, profile Profile, opts SessionOptions) (Session, error) {
	if profile.Browser != Chromium {
		return nil, fmt.Errorf("%w: rod cannot drive %s (profile %s)", ErrUnsupported, profile.Browser, profile.Name)
	}

	b, err := e.connect()
	if err != nil {
		return nil, err
	}

	incognito, err := b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if opts.IgnoreHTTPSErrors {
		if err := (proto.SecuritySetIgnoreCertificateErrors{Ignore: true}).Call(incognito); err != nil {
			incognito.Close()
			return nil, fmt.Errorf("failed to ignore certificate errors: %w", err)
		}
	}

	page, err := incognito.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		incognito.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	viewport := opts.Viewport
	if profile.Viewport != (Size{}) {
		viewport = profile.Viewport
	}
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: profile.DeviceScaleFactor,
		Mobile:            profile.IsMobile,
	})
	if err != nil {
		incognito.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	if profile.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: profile.UserAgent}); err != nil {
			incognito.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	return &rodSession{browser: incognito, page: &rodPage{page: page.Context(context.Background())}}, nil
}

// Close shuts Chromium down.
func (e *RodEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.browser = nil
	return err
}

type rodSession struct {
	browser *rod.Browser
	page    *rodPage
}

func (s *rodSession) Page() Page { return s.page }

func (s *rodSession) SaveTrace(string) error {
	return fmt.Errorf("%w: traces", ErrUnsupported)
}

func (s *rodSession) VideoPath() (string, error) {
	return "", fmt.Errorf("%w: video", ErrUnsupported)
}

func (s *rodSession) Close() error {
	return s.browser.Close()
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Goto(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return &NavigationError{URL: url, Err: timeoutErr(err)}
	}
	if err := page.WaitLoad(); err != nil {
		return &NavigationError{URL: url, Err: timeoutErr(err)}
	}
	return nil
}

func (p *rodPage) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", timeoutErr(err)
	}
	return info.Title, nil
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) Element(sel Selector) Element {
	return &rodElement{page: p.page, sel: sel}
}

func (p *rodPage) Evaluate(ctx context.Context, script string) error {
	_, err := p.page.Context(ctx).Eval(script)
	return timeoutErr(err)
}

func (p *rodPage) Screenshot(ctx context.Context, path string) error {
	data, err := p.page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		return timeoutErr(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (p *rodPage) Close() error { return p.page.Close() }

type rodElement struct {
	page *rod.Page
	sel  Selector
}

// find looks the element up once without rod's retry sleeper.
func (e *rodElement) find(ctx context.Context) (*rod.Element, error) {
	page := e.page.Context(ctx).Sleeper(rod.NotFoundSleeper)

	var (
		el  *rod.Element
		err error
	)
	if e.sel.HasText != "" {
		el, err = page.ElementR(e.sel.CSS, "/"+regexp.QuoteMeta(strings.TrimSpace(e.sel.HasText))+"/i")
	} else {
		el, err = page.Element(e.sel.CSS)
	}

	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, timeoutErr(err)
	}
	return el, nil
}

func (e *rodElement) act(ctx context.Context, action string, fn func(el *rod.Element) error) error {
	el, err := e.find(ctx)
	if err != nil {
		return &ActionError{Action: action, Selector: e.sel, Err: err}
	}
	if err := fn(el); err != nil {
		return &ActionError{Action: action, Selector: e.sel, Err: timeoutErr(err)}
	}
	return nil
}

func (e *rodElement) Fill(ctx context.Context, value string) error {
	return e.act(ctx, "fill", func(el *rod.Element) error {
		if err := el.SelectAllText(); err != nil {
			return err
		}
		return el.Input(value)
	})
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.act(ctx, "click", func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

func (e *rodElement) Check(ctx context.Context) error {
	return e.act(ctx, "check", func(el *rod.Element) error {
		checked, err := el.Property("checked")
		if err != nil {
			return err
		}
		if checked.Bool() {
			return nil
		}
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

func (e *rodElement) SelectOption(ctx context.Context, value string) error {
	return e.act(ctx, "select", func(el *rod.Element) error {
		return el.Select([]string{fmt.Sprintf("option[value=%q]", value)}, true, rod.SelectorTypeCSSSector)
	})
}

func (e *rodElement) InputValue(ctx context.Context) (string, error) {
	var v string
	err := e.act(ctx, "read value of", func(el *rod.Element) error {
		prop, err := el.Property("value")
		if err != nil {
			return err
		}
		v = prop.Str()
		return nil
	})
	return v, err
}

func (e *rodElement) TextContent(ctx context.Context) (string, error) {
	var v string
	err := e.act(ctx, "read text of", func(el *rod.Element) error {
		var err error
		v, err = el.Text()
		return err
	})
	return v, err
}

func (e *rodElement) IsVisible(ctx context.Context) (bool, error) {
	el, err := e.find(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &ActionError{Action: "check visibility of", Selector: e.sel, Err: err}
	}
	visible, err := el.Visible()
	if err != nil {
		return false, &ActionError{Action: "check visibility of", Selector: e.sel, Err: timeoutErr(err)}
	}
	return visible, nil
}

func (e *rodElement) ScrollIntoView(ctx context.Context) error {
	return e.act(ctx, "scroll to", func(el *rod.Element) error {
		return el.ScrollIntoView()
	})
}
