// Package browsertest provides in-memory implementations of the browser
// interfaces for unit tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qaforge/exercise-e2e/internal/browser"
)

// Element is the state of one fake element.
type Element struct {
	Visible bool
	// HiddenProbes makes the element report invisible for this many
	// IsVisible calls before Visible applies.
	HiddenProbes int
	Value        string
	Text         string
	Checked      bool
	Selected     string
	Clicks       int
	// Err is returned by every interaction.
	Err error
	// OnClick runs after each click, e.g. to simulate a page transition.
	OnClick func(p *Page)
}

// Page is a fake browser tab whose elements are registered up front.
type Page struct {
	mu       sync.Mutex
	elements map[string]*Element
	title    string
	url      string
	actions  []string
	closed   bool

	// OnGoto runs on navigation; a non-nil error fails it.
	OnGoto func(p *Page, url string) error
}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{elements: make(map[string]*Element)}
}

// Add registers el under sel and returns it.
func (p *Page) Add(sel browser.Selector, el *Element) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[sel.String()] = el
	return el
}

// Remove unregisters the element at sel.
func (p *Page) Remove(sel browser.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, sel.String())
}

// Get returns the element at sel, or nil.
func (p *Page) Get(sel browser.Selector) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elements[sel.String()]
}

// Show makes the element at sel visible, registering it if needed. It is
// meant for OnClick and OnGoto hooks, which run with the page unlocked.
func (p *Page) Show(sel browser.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[sel.String()]
	if !ok {
		el = &Element{}
		p.elements[sel.String()] = el
	}
	el.Visible = true
}

// Hide makes the element at sel invisible.
func (p *Page) Hide(sel browser.Selector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[sel.String()]; ok {
		el.Visible = false
	}
}

// SetTitle sets the document title.
func (p *Page) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// Actions returns a log of interactions such as "click #submit".
func (p *Page) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) record(format string, args ...any) {
	p.actions = append(p.actions, fmt.Sprintf(format, args...))
}

// Goto implements browser.Page
func (p *Page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return &browser.NavigationError{URL: url, Err: err}
	}
	p.mu.Lock()
	p.record("goto %s", url)
	hook := p.OnGoto
	p.mu.Unlock()

	if hook != nil {
		if err := hook(p, url); err != nil {
			return &browser.NavigationError{URL: url, Err: err}
		}
	}

	p.mu.Lock()
	p.url = url
	p.mu.Unlock()
	return nil
}

// Title implements browser.Page
func (p *Page) Title(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, ctx.Err()
}

// URL implements browser.Page
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Element implements browser.Page
func (p *Page) Element(sel browser.Selector) browser.Element {
	return &handle{page: p, sel: sel}
}

// Evaluate implements browser.Page
func (p *Page) Evaluate(ctx context.Context, script string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("evaluate %s", script)
	return ctx.Err()
}

// Screenshot implements browser.Page. It writes a placeholder file.
func (p *Page) Screenshot(ctx context.Context, path string) error {
	p.mu.Lock()
	p.record("screenshot %s", path)
	p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

// Close implements browser.Page
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type handle struct {
	page *Page
	sel  browser.Selector
}

// with runs fn on the element under the page lock.
func (h *handle) with(ctx context.Context, action string, fn func(el *Element) error) error {
	if err := ctx.Err(); err != nil {
		return &browser.ActionError{Action: action, Selector: h.sel, Err: err}
	}

	h.page.mu.Lock()
	el, ok := h.page.elements[h.sel.String()]
	if !ok {
		h.page.mu.Unlock()
		return &browser.ActionError{Action: action, Selector: h.sel, Err: browser.ErrNotFound}
	}
	if el.Err != nil {
		h.page.mu.Unlock()
		return &browser.ActionError{Action: action, Selector: h.sel, Err: el.Err}
	}
	h.page.record("%s %s", action, h.sel)
	err := fn(el)
	onClick := el.OnClick
	h.page.mu.Unlock()

	if action == "click" && onClick != nil {
		onClick(h.page)
	}
	return err
}

func (h *handle) Fill(ctx context.Context, value string) error {
	return h.with(ctx, "fill", func(el *Element) error {
		el.Value = value
		return nil
	})
}

func (h *handle) Click(ctx context.Context) error {
	return h.with(ctx, "click", func(el *Element) error {
		el.Clicks++
		return nil
	})
}

func (h *handle) Check(ctx context.Context) error {
	return h.with(ctx, "check", func(el *Element) error {
		el.Checked = true
		return nil
	})
}

func (h *handle) SelectOption(ctx context.Context, value string) error {
	return h.with(ctx, "select", func(el *Element) error {
		el.Selected = value
		return nil
	})
}

func (h *handle) InputValue(ctx context.Context) (string, error) {
	var v string
	err := h.with(ctx, "read value of", func(el *Element) error {
		v = el.Value
		return nil
	})
	return v, err
}

func (h *handle) TextContent(ctx context.Context) (string, error) {
	var v string
	err := h.with(ctx, "read text of", func(el *Element) error {
		v = el.Text
		return nil
	})
	return v, err
}

func (h *handle) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	h.page.mu.Lock()
	defer h.page.mu.Unlock()

	el, ok := h.page.elements[h.sel.String()]
	if !ok {
		return false, nil
	}
	if el.Err != nil {
		return false, el.Err
	}
	if el.HiddenProbes > 0 {
		el.HiddenProbes--
		return false, nil
	}
	return el.Visible, nil
}

func (h *handle) ScrollIntoView(ctx context.Context) error {
	return h.with(ctx, "scroll to", func(el *Element) error { return nil })
}

// Session is a fake browser context.
type Session struct {
	mu      sync.Mutex
	page    *Page
	Profile browser.Profile
	Opts    browser.SessionOptions
	closed  bool
}

// Page implements browser.Session
func (s *Session) Page() browser.Page { return s.page }

// FakePage returns the concrete page for assertions.
func (s *Session) FakePage() *Page { return s.page }

// SaveTrace implements browser.Session. It writes a placeholder archive.
func (s *Session) SaveTrace(path string) error {
	if !s.Opts.Trace {
		return errors.New("tracing was not started for this session")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("zip"), 0o644)
}

// VideoPath implements browser.Session
func (s *Session) VideoPath() (string, error) {
	if s.Opts.VideoDir == "" {
		return "", errors.New("video was not recorded for this session")
	}
	name := strings.ReplaceAll(s.Profile.Name, " ", "-") + ".webm"
	return filepath.Join(s.Opts.VideoDir, name), nil
}

// Close implements browser.Session. The video file appears on close, as
// with real engines.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.page.Close()

	if path, err := s.VideoPath(); err == nil {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte("webm"), 0o644)
	}
	return nil
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Engine is a fake engine. NewPage builds the page for every session.
type Engine struct {
	mu          sync.Mutex
	NewPage     func(profile browser.Profile) *Page
	Unsupported map[browser.BrowserType]bool
	sessions    []*Session
	closed      bool
}

// NewEngine creates an engine whose pages are built by newPage.
func NewEngine(newPage func(profile browser.Profile) *Page) *Engine {
	return &Engine{NewPage: newPage}
}

// Name implements browser.Engine
func (e *Engine) Name() string { return "fake" }

// NewSession implements browser.Engine
func (e *Engine) NewSession(ctx context.Context, profile browser.Profile, opts browser.SessionOptions) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Unsupported[profile.Browser] {
		return nil, fmt.Errorf("%w: fake cannot drive %s", browser.ErrUnsupported, profile.Browser)
	}

	page := NewPage()
	if e.NewPage != nil {
		page = e.NewPage(profile)
	}
	s := &Session{page: page, Profile: profile, Opts: opts}
	e.sessions = append(e.sessions, s)
	return s, nil
}

// Sessions returns every session opened so far.
func (e *Engine) Sessions() []*Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Session(nil), e.sessions...)
}

// Close implements browser.Engine
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
