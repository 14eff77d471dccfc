// internal/browser/completion.go
package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultPageCompleteScript is the load-event heuristic used when no custom
// page-complete check is configured: the page counts as settled once the
// load event has fired and two seconds have passed since it ended.
const DefaultPageCompleteScript = `(function() {
	try {
		var end = window.performance.timing.loadEventEnd;
		return (end > 0) && (Date.now() > end + 2000);
	} catch (e) {
		return true;
	}
})()`

const (
	defaultPageCompleteInterval = 200 * time.Millisecond
	defaultPageCompleteTimeout  = 30 * time.Second
)

// PageCompleteCheck builds a CompletionCheck that polls script through the
// driver until it evaluates truthy. The timeout lives here, with the
// predicate, not with the waits that delegate to it. An empty script selects
// DefaultPageCompleteScript; non-positive interval and timeout select the
// defaults.
func PageCompleteCheck(driver Driver, script string, interval, timeout time.Duration, logger *zap.Logger) CompletionCheck {
	if script == "" {
		script = DefaultPageCompleteScript
	}
	if interval <= 0 {
		interval = defaultPageCompleteInterval
	}
	if timeout <= 0 {
		timeout = defaultPageCompleteTimeout
	}
	return func(ctx context.Context) error {
		err := poll(ctx, timeout, interval, func(ctx context.Context) error {
			res, err := driver.Evaluate(ctx, script)
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
		logger.Error("Wait for page completion timed out.", zap.Duration("timeout", timeout))
		logger.Debug("Raw failure behind page-complete timeout.", zap.Error(err))
		return fmt.Errorf("page did not settle within %v", timeout)
	}
}
