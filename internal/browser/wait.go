package browser

import (
	"context"
	"fmt"
	"time"
)

// DefaultPollInterval is used when a WaitPolicy leaves Interval unset.
const DefaultPollInterval = 100 * time.Millisecond

// WaitPolicy bounds a wait. A zero Timeout checks exactly once.
type WaitPolicy struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (p WaitPolicy) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultPollInterval
	}
	return p.Interval
}

// Poll calls probe until it reports true, the policy timeout expires or ctx
// is done. On expiry the returned error wraps ErrTimeout and the last probe
// error, if any.
func (p WaitPolicy) Poll(ctx context.Context, probe func(ctx context.Context) (bool, error)) error {
	if p.Timeout <= 0 {
		ok, err := probe(ctx)
		switch {
		case err != nil:
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		case !ok:
			return ErrTimeout
		}
		return nil
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := probe(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return timeoutErr(err)
			}
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %w", ErrTimeout, p.Timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrTimeout, p.Timeout)
		case <-ticker.C:
		}
	}
}

// Resolver turns a selector into an element that is ready for interaction.
type Resolver interface {
	Resolve(ctx context.Context, sel Selector) (Element, error)
}

// PollingResolver waits for an element to become visible by polling it at the
// policy interval.
type PollingResolver struct {
	page   Page
	policy WaitPolicy
}

// NewPollingResolver creates a resolver for page bounded by policy.
func NewPollingResolver(page Page, policy WaitPolicy) *PollingResolver {
	return &PollingResolver{page: page, policy: policy}
}

// Policy returns the resolver's wait policy.
func (r *PollingResolver) Policy() WaitPolicy {
	return r.policy
}

// Resolve returns the element once it is visible. If it does not become
// visible in time the error is an *ActionError wrapping ErrTimeout.
func (r *PollingResolver) Resolve(ctx context.Context, sel Selector) (Element, error) {
	el := r.page.Element(sel)
	err := r.policy.Poll(ctx, el.IsVisible)
	if err != nil {
		return nil, &ActionError{Action: "wait for", Selector: sel, Err: err}
	}
	return el, nil
}
