// -- cmd/cmd_test.go --
package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), Version)
}

func TestMeasureCommandIsRegistered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"measure"})
	require.NoError(t, err)
	assert.Equal(t, "measure <url>", cmd.Use)

	for _, flag := range []string{
		"iterations", "wait-id", "wait-selector", "wait-xpath", "wait-script",
		"wait-timeout-ms", "click-selector", "click-xpath", "click-wait",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestMeasureRequiresURL(t *testing.T) {
	rootCmd.SetArgs([]string{"measure"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}

func TestExecuteFlushesLogsBeforeReportingExitCode(t *testing.T) {
	// execute returns the exit code instead of exiting so its deferred log
	// flush runs before os.Exit in Execute.
	t.Run("FailureReturnsOne", func(t *testing.T) {
		rootCmd.SetArgs([]string{"measure"})
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		assert.Equal(t, 1, execute())
	})

	t.Run("SuccessReturnsZero", func(t *testing.T) {
		rootCmd.SetArgs([]string{"--version"})
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		assert.Equal(t, 0, execute())
	})
}

func TestPerformanceReadoutScriptShape(t *testing.T) {
	// The readout struct must stay aligned with the script's return object.
	for _, key := range []string{
		"backendTime", "domInteractive", "domContentLoaded", "loadEventEnd",
		"firstPaint", "firstContentfulPaint", "resources",
	} {
		assert.Contains(t, performanceReadoutScript, key)
	}
}
