// internal/browser/actions.go
// The Actions engine performs pointer interactions and optionally gates
// progress on page settlement afterwards. Separating "do the physical click"
// from "wait for the page to settle" behind a single flag lets callers
// express the common click-then-wait idiom atomically while still allowing
// fire-and-forget clicks.
package browser

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ClickOptions configures a single pointer interaction. Wait requests a
// settle-wait for page completion after the click resolves; everything else
// about the interaction is fixed.
type ClickOptions struct {
	Wait bool
}

// Actions dispatches pointer interactions through the Driver. All clicks
// from one instance draw on the same queued action sequence, so a second
// call waits for the first call's dispatch to complete before its own
// proceeds. Distinct instances are independent.
type Actions struct {
	driver Driver
	waiter *Waiter
	logger *zap.Logger

	// mu serializes dispatches sharing the one action sequence.
	mu sync.Mutex
}

// NewActions builds an Actions engine on top of driver, using waiter for the
// optional post-click settle-wait.
func NewActions(driver Driver, waiter *Waiter, logger *zap.Logger) *Actions {
	return &Actions{driver: driver, waiter: waiter, logger: logger}
}

// ClickByID clicks the element with the given id.
func (a *Actions) ClickByID(ctx context.Context, id string, opts *ClickOptions) error {
	loc := ByID(id)
	return a.click(ctx, &loc, opts)
}

// ClickByXPath clicks the element matching the XPath.
func (a *Actions) ClickByXPath(ctx context.Context, xpath string, opts *ClickOptions) error {
	loc := ByXPath(xpath)
	return a.click(ctx, &loc, opts)
}

// ClickBySelector clicks the element matching the CSS selector.
func (a *Actions) ClickBySelector(ctx context.Context, selector string, opts *ClickOptions) error {
	loc := BySelector(selector)
	return a.click(ctx, &loc, opts)
}

// ClickAtCursor clicks at the pointer's current position without resolving a
// target element first.
func (a *Actions) ClickAtCursor(ctx context.Context, opts *ClickOptions) error {
	return a.click(ctx, nil, opts)
}

func (a *Actions) click(ctx context.Context, loc *Locator, opts *ClickOptions) error {
	a.mu.Lock()
	err := a.driver.Click(ctx, loc)
	a.mu.Unlock()
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		target := "current pointer position"
		if loc != nil {
			target = loc.String()
		}
		a.logger.Error("Click failed.", zap.String("target", target))
		a.logger.Debug("Raw failure behind click.", zap.Error(err))
		return &ActionFailureError{Action: "click", Locator: loc}
	}
	if opts != nil && opts.Wait {
		return a.waiter.ByPageToComplete(ctx)
	}
	return nil
}
