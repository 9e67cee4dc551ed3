package browser

import (
	"context"
	"errors"
	"strings"
)

// Expect makes assertions about a page, retrying each one until it holds or
// the policy timeout expires.
type Expect struct {
	page   Page
	policy WaitPolicy
}

// NewExpect creates assertions for page bounded by policy.
func NewExpect(page Page, policy WaitPolicy) *Expect {
	return &Expect{page: page, policy: policy}
}

// Visible asserts the element becomes visible.
func (e *Expect) Visible(ctx context.Context, sel Selector) error {
	el := e.page.Element(sel)
	if err := e.policy.Poll(ctx, el.IsVisible); err != nil {
		return &AssertionError{Assertion: "to be visible", Target: sel.String(), Err: err}
	}
	return nil
}

// Hidden asserts the element is absent or not visible.
func (e *Expect) Hidden(ctx context.Context, sel Selector) error {
	el := e.page.Element(sel)
	err := e.policy.Poll(ctx, func(ctx context.Context) (bool, error) {
		visible, err := el.IsVisible(ctx)
		if errors.Is(err, ErrNotFound) {
			return true, nil
		}
		return !visible, err
	})
	if err != nil {
		return &AssertionError{Assertion: "to be hidden", Target: sel.String(), Err: err}
	}
	return nil
}

// Value asserts the input's value equals want.
func (e *Expect) Value(ctx context.Context, sel Selector, want string) error {
	el := e.page.Element(sel)
	var got string
	err := e.policy.Poll(ctx, func(ctx context.Context) (bool, error) {
		v, err := el.InputValue(ctx)
		if err != nil {
			return false, err
		}
		got = v
		return v == want, nil
	})
	if err != nil {
		return &AssertionError{Assertion: "to have value", Target: sel.String(), Expected: want, Actual: got, Err: err}
	}
	return nil
}

// TitleContains asserts the document title contains want.
func (e *Expect) TitleContains(ctx context.Context, want string) error {
	var got string
	err := e.policy.Poll(ctx, func(ctx context.Context) (bool, error) {
		title, err := e.page.Title(ctx)
		if err != nil {
			return false, err
		}
		got = title
		return strings.Contains(title, want), nil
	})
	if err != nil {
		return &AssertionError{Assertion: "to contain", Target: "page title", Expected: want, Actual: got, Err: err}
	}
	return nil
}
