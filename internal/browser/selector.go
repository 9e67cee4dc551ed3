package browser

import (
	"fmt"
	"strconv"
)

// Selector locates an element by CSS and, optionally, by contained text.
// Text matching is case-insensitive and matches substrings.
type Selector struct {
	CSS     string
	HasText string
}

// CSS returns a selector matching css.
func CSS(css string) Selector {
	return Selector{CSS: css}
}

// DataQA returns a selector for the site's data-qa test hooks.
func DataQA(value string) Selector {
	return Selector{CSS: fmt.Sprintf("[data-qa=%q]", value)}
}

// WithText narrows s to elements containing text.
func (s Selector) WithText(text string) Selector {
	s.HasText = text
	return s
}

// String renders the selector in playwright's css:has-text("text") form.
func (s Selector) String() string {
	if s.HasText == "" {
		return s.CSS
	}
	return s.CSS + ":has-text(" + strconv.Quote(s.HasText) + ")"
}
