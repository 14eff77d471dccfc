// internal/browser/errors_test.go
package browser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	werr := &WaitTimeoutError{Kind: "id", Value: "submit", Timeout: 500 * time.Millisecond}
	assert.Equal(t, `timed out waiting for id "submit" after 500ms`, werr.Error())

	loc := BySelector(".missing")
	aerr := &ActionFailureError{Action: "click", Locator: &loc}
	assert.Equal(t, `click failed for selector ".missing"`, aerr.Error())

	cursor := &ActionFailureError{Action: "click"}
	assert.Equal(t, "click failed at current pointer position", cursor.Error())
}

func TestErrorKindsAreDiscriminable(t *testing.T) {
	var err error = fmt.Errorf("outer: %w", &WaitTimeoutError{Kind: "condition", Value: "x", Timeout: time.Second})

	var werr *WaitTimeoutError
	var aerr *ActionFailureError
	assert.True(t, errors.As(err, &werr))
	assert.False(t, errors.As(err, &aerr))

	err = fmt.Errorf("outer: %w", &ActionFailureError{Action: "click"})
	assert.False(t, errors.As(err, &werr))
	assert.True(t, errors.As(err, &aerr))
}

func TestLocatorConstructors(t *testing.T) {
	assert.Equal(t, Locator{Kind: LocatorID, Value: "a"}, ByID("a"))
	assert.Equal(t, Locator{Kind: LocatorXPath, Value: "//b"}, ByXPath("//b"))
	assert.Equal(t, Locator{Kind: LocatorSelector, Value: ".c"}, BySelector(".c"))
	assert.Equal(t, "xpath=//b", ByXPath("//b").String())
}
