// internal/browser/driver_cdp.go
// CDP-backed implementation of the Driver capability interface. Element
// lookup and script evaluation go through runtime.Evaluate; clicks are
// dispatched as raw mouse events so that clicking at the pointer's current
// position works without resolving a target first.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

type cdpDriver struct {
	// ctx is the tab context carrying the CDP target. Operational contexts
	// are combined with it per call.
	ctx    context.Context
	logger *zap.Logger

	// Last pointer position, updated after every successful click so that
	// cursor-position clicks land where the previous click did.
	mu         sync.Mutex
	curX, curY float64
}

var _ Driver = (*cdpDriver)(nil)

func newCDPDriver(tabCtx context.Context, logger *zap.Logger) *cdpDriver {
	return &cdpDriver{ctx: tabCtx, logger: logger}
}

// Locate resolves the locator inside the page and fails when no element
// matches right now.
func (d *cdpDriver) Locate(ctx context.Context, loc Locator) error {
	probe := fmt.Sprintf(`(%s) !== null`, locatorExpr(loc))
	res, err := d.Evaluate(ctx, probe)
	if err != nil {
		return err
	}
	if !truthy(res) {
		return fmt.Errorf("no element matching %s", loc)
	}
	return nil
}

// Evaluate runs the expression in the page and returns its value by JSON,
// awaiting promises and swallowing console noise.
func (d *cdpDriver) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	var res json.RawMessage
	err := d.run(ctx, chromedp.Evaluate(expression, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
	}))
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return res, nil
}

// Click dispatches a left-button press/release pair. With a locator the
// click lands on the element's center; with nil it lands at the pointer's
// current position.
func (d *cdpDriver) Click(ctx context.Context, loc *Locator) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	x, y := d.curX, d.curY
	if loc != nil {
		cx, cy, err := d.elementCenter(ctx, *loc)
		if err != nil {
			return err
		}
		x, y = cx, cy
	}

	press := input.DispatchMouseEvent(input.MousePressed, x, y).
		WithButton(input.Left).
		WithClickCount(1)
	release := input.DispatchMouseEvent(input.MouseReleased, x, y).
		WithButton(input.Left).
		WithClickCount(1)

	if err := d.run(ctx, press, release); err != nil {
		return fmt.Errorf("mouse dispatch failed: %w", err)
	}
	d.curX, d.curY = x, y
	d.logger.Debug("Click dispatched.", zap.Float64("x", x), zap.Float64("y", y))
	return nil
}

// elementCenter resolves the locator and returns the viewport coordinates of
// the element's center.
func (d *cdpDriver) elementCenter(ctx context.Context, loc Locator) (float64, float64, error) {
	script := fmt.Sprintf(`(function() {
		var el = %s;
		if (!el) return null;
		var r = el.getBoundingClientRect();
		return {x: r.left + r.width / 2, y: r.top + r.height / 2};
	})()`, locatorExpr(loc))

	res, err := d.Evaluate(ctx, script)
	if err != nil {
		return 0, 0, err
	}
	if string(res) == "null" {
		return 0, 0, fmt.Errorf("no element matching %s", loc)
	}
	var point struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(res, &point); err != nil {
		return 0, 0, fmt.Errorf("unexpected geometry payload for %s: %w", loc, err)
	}
	return point.X, point.Y, nil
}

func (d *cdpDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(d.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// locatorExpr returns a JS expression evaluating to the first element the
// locator matches, or null.
func locatorExpr(loc Locator) string {
	switch loc.Kind {
	case LocatorID:
		return fmt.Sprintf(`document.getElementById(%s)`, jsonEncode(loc.Value))
	case LocatorXPath:
		return fmt.Sprintf(
			`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			jsonEncode(loc.Value))
	default:
		return fmt.Sprintf(`document.querySelector(%s)`, jsonEncode(loc.Value))
	}
}

// jsonEncode safely embeds a value (notably strings) in generated JS.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}

// combineContext derives a context from parentCtx (keeping its values, which
// carry the CDP target) that is additionally canceled when secondaryCtx is.
func combineContext(parentCtx, secondaryCtx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(parentCtx)
	go func() {
		select {
		case <-secondaryCtx.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}
