// internal/browser/driver_cdp_test.go
package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorExpr(t *testing.T) {
	assert.Equal(t, `document.getElementById("submit")`, locatorExpr(ByID("submit")))
	assert.Equal(t, `document.querySelector(".btn.primary")`, locatorExpr(BySelector(".btn.primary")))
	assert.Contains(t, locatorExpr(ByXPath(`//a[@href="x"]`)), `document.evaluate("//a[@href=\"x\"]"`)
}

func TestJSONEncodeEscapesForScripts(t *testing.T) {
	// Values are embedded in generated JS; quoting must survive hostile input.
	assert.Equal(t, `"plain"`, jsonEncode("plain"))
	assert.Equal(t, `"a\"b"`, jsonEncode(`a"b`))
	assert.Equal(t, `"<script>"`, jsonEncode("<script>"))
}
