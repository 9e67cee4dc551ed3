package browser

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout is wrapped by every error caused by a bounded wait expiring.
	ErrTimeout = errors.New("timed out")
	// ErrUnsupported is returned when an engine cannot serve a profile or feature.
	ErrUnsupported = errors.New("not supported by engine")
	// ErrNotFound is returned when an element is absent at the time of a one-shot lookup.
	ErrNotFound = errors.New("element not found")
)

// NavigationError is returned when a page cannot be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ActionError is returned when an interaction with an element fails.
type ActionError struct {
	Action   string
	Selector Selector
	Err      error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Selector, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// AssertionError is returned when an expectation is not met within the
// assertion timeout.
type AssertionError struct {
	Assertion string
	Target    string
	Expected  string
	Actual    string
	Err       error
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("expect %s %s", e.Target, e.Assertion)
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %q, got %q", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *AssertionError) Unwrap() error { return e.Err }

// timeoutErr folds context deadline errors into ErrTimeout.
func timeoutErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
