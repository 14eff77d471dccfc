// internal/browser/wait.go
// The Waiter converts the driver's unbounded primitives into bounded, typed
// waits. Every wait shares the same shape: apply the default timeout when the
// caller didn't pick one, poll the driver until the condition holds, and on
// timeout log the raw cause and return a fresh WaitTimeoutError.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWaitTimeout is applied when a wait is requested without an
	// explicit maxTime (or with a non-positive one). Six seconds balances
	// flaky-page tolerance against total run time across many iterations.
	DefaultWaitTimeout = 6 * time.Second

	defaultPollInterval = 200 * time.Millisecond
)

var errConditionFalsy = errors.New("condition evaluated falsy")

// Waiter provides bounded polling primitives over a Driver. It holds no
// per-call state; the driver and completion check are borrowed from the
// enclosing session for the waiter's lifetime and never mutated.
type Waiter struct {
	driver     Driver
	complete   CompletionCheck
	maxDefault time.Duration
	interval   time.Duration
	logger     *zap.Logger
}

// NewWaiter builds a Waiter. Non-positive defaultTimeout and interval select
// DefaultWaitTimeout and the default polling interval.
func NewWaiter(driver Driver, complete CompletionCheck, defaultTimeout, interval time.Duration, logger *zap.Logger) *Waiter {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultWaitTimeout
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Waiter{driver: driver, complete: complete, maxDefault: defaultTimeout, interval: interval, logger: logger}
}

// ByID polls until an element with the given id exists or maxTime elapses.
func (w *Waiter) ByID(ctx context.Context, id string, maxTime time.Duration) error {
	return w.byLocator(ctx, ByID(id), maxTime)
}

// ByXPath polls until an element matching the XPath exists or maxTime elapses.
func (w *Waiter) ByXPath(ctx context.Context, xpath string, maxTime time.Duration) error {
	return w.byLocator(ctx, ByXPath(xpath), maxTime)
}

// BySelector polls until an element matching the CSS selector exists or
// maxTime elapses.
func (w *Waiter) BySelector(ctx context.Context, selector string, maxTime time.Duration) error {
	return w.byLocator(ctx, BySelector(selector), maxTime)
}

// ByTime suspends for the full duration and then succeeds. It never produces
// a timeout error; an elapsed duration is the success condition.
func (w *Waiter) ByTime(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ByPageToComplete delegates entirely to the completion check. The waiter
// imposes no timeout of its own here; that policy belongs to the predicate.
func (w *Waiter) ByPageToComplete(ctx context.Context) error {
	return w.complete(ctx)
}

// ByCondition repeatedly evaluates the expression inside the page until it
// yields a truthy value or maxTime elapses. An expression that keeps throwing
// and one that stays falsy both end in the same timeout error.
func (w *Waiter) ByCondition(ctx context.Context, expression string, maxTime time.Duration) error {
	timeout := w.orDefault(maxTime)
	err := poll(ctx, timeout, w.interval, func(ctx context.Context) error {
		res, err := w.driver.Evaluate(ctx, expression)
		if err != nil {
			return err
		}
		if !truthy(res) {
			return errConditionFalsy
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	w.logger.Error("Wait for condition timed out.",
		zap.String("condition", expression), zap.Duration("timeout", timeout))
	w.logger.Debug("Raw failure behind condition timeout.", zap.Error(err))
	return &WaitTimeoutError{Kind: "condition", Value: expression, Timeout: timeout}
}

func (w *Waiter) byLocator(ctx context.Context, loc Locator, maxTime time.Duration) error {
	timeout := w.orDefault(maxTime)
	err := poll(ctx, timeout, w.interval, func(ctx context.Context) error {
		return w.driver.Locate(ctx, loc)
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}
	w.logger.Error("Wait for element timed out.",
		zap.String("locator", loc.String()), zap.Duration("timeout", timeout))
	w.logger.Debug("Raw failure behind element timeout.", zap.Error(err))
	return &WaitTimeoutError{Kind: string(loc.Kind), Value: loc.Value, Timeout: timeout}
}

// orDefault applies the default wait timeout. Zero selects the default so a
// zero-timeout wait cannot be requested; that matches the behavior callers
// already depend on.
func (w *Waiter) orDefault(maxTime time.Duration) time.Duration {
	if maxTime <= 0 {
		return w.maxDefault
	}
	return maxTime
}

// poll re-runs check until it succeeds, the timeout elapses, or ctx is done.
// On timeout it returns the last failure from check so the caller can log the
// raw cause. The first attempt happens immediately; subsequent attempts are
// spaced by interval, clamped so the total stays close to timeout. Each
// attempt runs under a context bounded by the overall deadline, so a driver
// call that hangs mid-attempt is cut off when the budget expires instead of
// stalling the wait indefinitely.
func poll(ctx context.Context, timeout, interval time.Duration, check func(context.Context) error) error {
	deadline := time.Now().Add(timeout)
	pollCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var last error
	for {
		err := check(pollCtx)
		if err == nil {
			return nil
		}
		last = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return last
		}
		wait := interval
		if wait > remaining {
			wait = remaining
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// truthy reports whether a raw JSON value would be truthy in the page
// context: null, false, 0, and "" are falsy; objects and arrays are truthy.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
