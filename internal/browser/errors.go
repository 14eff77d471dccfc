// internal/browser/errors.go
package browser

import (
	"fmt"
	"time"
)

// WaitTimeoutError reports that an awaited condition did not become true
// within the allotted time. Kind is the locator kind for element waits or
// "condition" for script waits; Value is the locator value or the expression
// text. It carries enough context to reproduce the failing call.
//
// The raw driver failure that preceded the timeout is logged, not wrapped:
// callers get a fresh, self-contained error.
type WaitTimeoutError struct {
	Kind    string
	Value   string
	Timeout time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s %q after %v", e.Kind, e.Value, e.Timeout)
}

// ActionFailureError reports that a pointer action could not be completed,
// either because the target could not be resolved or because the dispatch
// itself failed. Locator is nil for actions at the current pointer position.
type ActionFailureError struct {
	Action  string
	Locator *Locator
}

func (e *ActionFailureError) Error() string {
	if e.Locator == nil {
		return fmt.Sprintf("%s failed at current pointer position", e.Action)
	}
	return fmt.Sprintf("%s failed for %s %q", e.Action, e.Locator.Kind, e.Locator.Value)
}
