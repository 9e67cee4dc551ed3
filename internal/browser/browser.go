// Package browser is the capability layer between page representations and a
// browser-automation engine. Engines (playwright-go, rod) are adapted to the
// small Page/Element surface defined here, and every wait the suite performs
// goes through an explicit WaitPolicy.
package browser

import (
	"context"
	"time"
)

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  int
	Height int
}

// Element is a lazily resolved handle. Each call locates the element again,
// so a handle stays valid across navigations.
type Element interface {
	Fill(ctx context.Context, value string) error
	Click(ctx context.Context) error
	Check(ctx context.Context) error
	SelectOption(ctx context.Context, value string) error
	InputValue(ctx context.Context) (string, error)
	TextContent(ctx context.Context) (string, error)
	// IsVisible checks once and never waits.
	IsVisible(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context) error
}

// Page is one browser tab.
type Page interface {
	Goto(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	URL() string
	Element(sel Selector) Element
	Evaluate(ctx context.Context, script string) error
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// SessionOptions configure a browser context.
type SessionOptions struct {
	// Viewport applies to desktop profiles; device profiles carry their own.
	Viewport          Size
	IgnoreHTTPSErrors bool
	DefaultTimeout    time.Duration
	Trace             bool
	// VideoDir enables video recording when non-empty.
	VideoDir string
}

// Session is an isolated browser context holding exactly one page.
type Session interface {
	Page() Page
	// SaveTrace stops tracing and writes the archive to path.
	SaveTrace(path string) error
	// VideoPath returns where the video is written. The file is complete
	// only after Close.
	VideoPath() (string, error)
	Close() error
}

// Engine launches browsers and opens sessions on them.
type Engine interface {
	Name() string
	NewSession(ctx context.Context, profile Profile, opts SessionOptions) (Session, error)
	Close() error
}
