// Package pages holds the page representations of automationexercise.com.
// Each representation maps semantic element names to selectors and builds
// its operations from the Primitives a Base provides.
package pages

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/qaforge/exercise-e2e/internal/browser"
)

// Primitives are the page-independent operations representations compose.
type Primitives interface {
	// Navigate loads path relative to the configured base URL.
	Navigate(ctx context.Context, path string) error
	Title(ctx context.Context) (string, error)
	// IsVisible checks once and never waits.
	IsVisible(ctx context.Context, sel browser.Selector) (bool, error)
	ScrollIntoView(ctx context.Context, sel browser.Selector) error
	ScrollToTop(ctx context.Context) error
	ScrollToBottom(ctx context.Context) error
	// CaptureScreenshot writes <screenshot dir>/<name>.png and returns the path.
	CaptureScreenshot(ctx context.Context, name string) (string, error)

	Fill(ctx context.Context, sel browser.Selector, value string) error
	Click(ctx context.Context, sel browser.Selector) error
	Check(ctx context.Context, sel browser.Selector) error
	Select(ctx context.Context, sel browser.Selector, value string) error
	Value(ctx context.Context, sel browser.Selector) (string, error)

	ExpectVisible(ctx context.Context, sel browser.Selector) error
	ExpectHidden(ctx context.Context, sel browser.Selector) error
	ExpectValue(ctx context.Context, sel browser.Selector, want string) error
	ExpectTitleContains(ctx context.Context, want string) error
}

// Options configure a Base.
type Options struct {
	BaseURL       string
	ScreenshotDir string
	// Action bounds element interactions, Expect bounds assertions.
	Action browser.WaitPolicy
	Expect browser.WaitPolicy
}

// Base implements Primitives for one page. It holds no state beyond the page
// and its wait policies.
type Base struct {
	page          browser.Page
	baseURL       string
	screenshotDir string
	actionTimeout time.Duration
	resolver      browser.Resolver
	expect        *browser.Expect
}

var _ Primitives = (*Base)(nil)

// NewBase binds primitives to page.
func NewBase(page browser.Page, opts Options) *Base {
	return &Base{
		page:          page,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		screenshotDir: opts.ScreenshotDir,
		actionTimeout: opts.Action.Timeout,
		resolver:      browser.NewPollingResolver(page, opts.Action),
		expect:        browser.NewExpect(page, opts.Expect),
	}
}

// URL resolves path against the base URL. Absolute URLs are returned as is.
func (b *Base) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path
}

// Navigate implements Primitives
func (b *Base) Navigate(ctx context.Context, path string) error {
	return b.page.Goto(ctx, b.URL(path))
}

// Title implements Primitives
func (b *Base) Title(ctx context.Context) (string, error) {
	return b.page.Title(ctx)
}

// IsVisible implements Primitives
func (b *Base) IsVisible(ctx context.Context, sel browser.Selector) (bool, error) {
	return b.page.Element(sel).IsVisible(ctx)
}

// ScrollIntoView implements Primitives
func (b *Base) ScrollIntoView(ctx context.Context, sel browser.Selector) error {
	return b.act(ctx, sel, func(ctx context.Context, el browser.Element) error {
		return el.ScrollIntoView(ctx)
	})
}

// ScrollToTop implements Primitives
func (b *Base) ScrollToTop(ctx context.Context) error {
	return b.page.Evaluate(ctx, "() => window.scrollTo(0, 0)")
}

// ScrollToBottom implements Primitives
func (b *Base) ScrollToBottom(ctx context.Context) error {
	return b.page.Evaluate(ctx, "() => window.scrollTo(0, document.body.scrollHeight)")
}

// CaptureScreenshot implements Primitives
func (b *Base) CaptureScreenshot(ctx context.Context, name string) (string, error) {
	path := filepath.Join(b.screenshotDir, name+".png")
	if err := b.page.Screenshot(ctx, path); err != nil {
		return "", fmt.Errorf("failed to capture screenshot %s: %w", name, err)
	}
	return path, nil
}

// act waits for sel to be ready and runs fn within the action timeout.
func (b *Base) act(ctx context.Context, sel browser.Selector, fn func(ctx context.Context, el browser.Element) error) error {
	if b.actionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.actionTimeout)
		defer cancel()
	}

	el, err := b.resolver.Resolve(ctx, sel)
	if err != nil {
		return err
	}
	return fn(ctx, el)
}

// Fill implements Primitives
func (b *Base) Fill(ctx context.Context, sel browser.Selector, value string) error {
	return b.act(ctx, sel, func(ctx context.Context, el browser.Element) error {
		return el.Fill(ctx, value)
	})
}

// Click implements Primitives
func (b *Base) Click(ctx context.Context, sel browser.Selector) error {
	return b.act(ctx, sel, func(ctx context.Context, el browser.Element) error {
		return el.Click(ctx)
	})
}

// Check implements Primitives
func (b *Base) Check(ctx context.Context, sel browser.Selector) error {
	return b.act(ctx, sel, func(ctx context.Context, el browser.Element) error {
		return el.Check(ctx)
	})
}

// Select implements Primitives
func (b *Base) Select(ctx context.Context, sel browser.Selector, value string) error {
	return b.act(ctx, sel, func(ctx context.Context, el browser.Element) error {
		return el.SelectOption(ctx, value)
	})
}

// Value implements Primitives
func (b *Base) Value(ctx context.Context, sel browser.Selector) (string, error) {
	var v string
	err := b.act(ctx, sel, func(ctx context.Context, el browser.Element) error {
		var err error
		v, err = el.InputValue(ctx)
		return err
	})
	return v, err
}

// ExpectVisible implements Primitives
func (b *Base) ExpectVisible(ctx context.Context, sel browser.Selector) error {
	return b.expect.Visible(ctx, sel)
}

// ExpectHidden implements Primitives
func (b *Base) ExpectHidden(ctx context.Context, sel browser.Selector) error {
	return b.expect.Hidden(ctx, sel)
}

// ExpectValue implements Primitives
func (b *Base) ExpectValue(ctx context.Context, sel browser.Selector, want string) error {
	return b.expect.Value(ctx, sel, want)
}

// ExpectTitleContains implements Primitives
func (b *Base) ExpectTitleContains(ctx context.Context, want string) error {
	return b.expect.TitleContains(ctx, want)
}
