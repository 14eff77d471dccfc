// internal/browser/driver.go
package browser

import (
	"context"
	"encoding/json"
)

// LocatorKind discriminates how an element is looked up on the page.
type LocatorKind string

const (
	LocatorID       LocatorKind = "id"
	LocatorXPath    LocatorKind = "xpath"
	LocatorSelector LocatorKind = "selector"
)

// Locator names how to find an element. It is a lookup key, never a handle
// to the element itself; the driver resolves it fresh on every call.
type Locator struct {
	Kind  LocatorKind
	Value string
}

// ByID builds an element-id locator.
func ByID(id string) Locator { return Locator{Kind: LocatorID, Value: id} }

// ByXPath builds an XPath locator.
func ByXPath(xpath string) Locator { return Locator{Kind: LocatorXPath, Value: xpath} }

// BySelector builds a CSS-selector locator.
func BySelector(selector string) Locator { return Locator{Kind: LocatorSelector, Value: selector} }

func (l Locator) String() string {
	return string(l.Kind) + "=" + l.Value
}

// Driver is the narrow capability surface the wait and action engines need
// from the underlying browser. It is deliberately much smaller than the full
// CDP session so that tests can substitute a double that simulates slow
// elements, evaluation failures, and dispatch errors deterministically.
//
// Every method is a suspension point: implementations block until the
// browser round-trip settles or ctx is done.
type Driver interface {
	// Locate resolves exactly one element matching loc. A nil return means
	// the element exists right now; any error means it could not be resolved
	// on this attempt.
	Locate(ctx context.Context, loc Locator) error

	// Evaluate runs a script fragment inside the page context and returns
	// its value as raw JSON.
	Evaluate(ctx context.Context, expression string) (json.RawMessage, error)

	// Click queues and executes a pointer click. With a non-nil locator the
	// target element is resolved first; with nil the click lands at the
	// pointer's current position.
	Click(ctx context.Context, loc *Locator) error
}

// CompletionCheck is the externally supplied predicate for "the page has
// settled". What settled means is entirely the predicate's business,
// including any timeout policy it wants to impose.
type CompletionCheck func(ctx context.Context) error
