// -- cmd/measure.go --
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redspotinnovations/browsertime/internal/browser"
	"github.com/redspotinnovations/browsertime/internal/observability"
)

var (
	iterations    int
	waitID        string
	waitSelector  string
	waitXPath     string
	waitScript    string
	waitTimeoutMs int
	clickSelector string
	clickXPath    string
	clickWait     bool
)

// performanceReadoutScript reads a single navigation-timing snapshot from
// the settled page.
const performanceReadoutScript = `(function() {
	var t = window.performance.timing;
	var nav = t.navigationStart;
	var paint = {};
	try {
		performance.getEntriesByType('paint').forEach(function(e) {
			paint[e.name] = Math.round(e.startTime);
		});
	} catch (e) {}
	return {
		url: document.URL,
		title: document.title,
		backendTime: t.responseStart - nav,
		domInteractive: t.domInteractive - nav,
		domContentLoaded: t.domContentLoadedEventEnd - nav,
		loadEventEnd: t.loadEventEnd - nav,
		firstPaint: paint['first-paint'] || 0,
		firstContentfulPaint: paint['first-contentful-paint'] || 0,
		resources: performance.getEntriesByType('resource').length
	};
})()`

// pageReadout mirrors performanceReadoutScript's return value.
type pageReadout struct {
	URL                  string `json:"url"`
	Title                string `json:"title"`
	BackendTime          int64  `json:"backendTime"`
	DOMInteractive       int64  `json:"domInteractive"`
	DOMContentLoaded     int64  `json:"domContentLoaded"`
	LoadEventEnd         int64  `json:"loadEventEnd"`
	FirstPaint           int64  `json:"firstPaint"`
	FirstContentfulPaint int64  `json:"firstContentfulPaint"`
	Resources            int64  `json:"resources"`
}

var measureCmd = &cobra.Command{
	Use:   "measure <url>",
	Short: "Navigate to a URL, drive it to a deterministic state, and report timings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger().Named("measure")
		ctx := cmd.Context()

		session, err := browser.NewSession(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		logger.Debug("Trace categories resolved.",
			zap.Strings("categories", browser.TraceCategories(cfg.Browser.TraceCategories)))

		for i := 1; i <= iterations; i++ {
			if err := runIteration(ctx, session, args[0], i, logger); err != nil {
				return fmt.Errorf("iteration %d: %w", i, err)
			}
		}
		return nil
	},
}

func runIteration(ctx context.Context, session *browser.Session, url string, iteration int, logger *zap.Logger) error {
	if err := session.Navigate(ctx, url); err != nil {
		return err
	}

	waiter := session.Waiter()
	actions := session.Actions()
	waitTimeout := time.Duration(waitTimeoutMs) * time.Millisecond

	if waitID != "" {
		if err := waiter.ByID(ctx, waitID, waitTimeout); err != nil {
			return err
		}
	}
	if waitSelector != "" {
		if err := waiter.BySelector(ctx, waitSelector, waitTimeout); err != nil {
			return err
		}
	}
	if waitXPath != "" {
		if err := waiter.ByXPath(ctx, waitXPath, waitTimeout); err != nil {
			return err
		}
	}
	if waitScript != "" {
		if err := waiter.ByCondition(ctx, waitScript, waitTimeout); err != nil {
			return err
		}
	}

	opts := &browser.ClickOptions{Wait: clickWait}
	if clickSelector != "" {
		if err := actions.ClickBySelector(ctx, clickSelector, opts); err != nil {
			return err
		}
	}
	if clickXPath != "" {
		if err := actions.ClickByXPath(ctx, clickXPath, opts); err != nil {
			return err
		}
	}

	if err := waiter.ByPageToComplete(ctx); err != nil {
		return err
	}

	raw, err := session.Driver().Evaluate(ctx, performanceReadoutScript)
	if err != nil {
		return fmt.Errorf("timing readout failed: %w", err)
	}
	var readout pageReadout
	if err := json.Unmarshal(raw, &readout); err != nil {
		return fmt.Errorf("unexpected timing payload: %w", err)
	}

	logger.Info("Page measured.",
		zap.Int("iteration", iteration),
		zap.String("url", readout.URL),
		zap.String("title", readout.Title),
		zap.Int64("backend_time_ms", readout.BackendTime),
		zap.Int64("dom_interactive_ms", readout.DOMInteractive),
		zap.Int64("dom_content_loaded_ms", readout.DOMContentLoaded),
		zap.Int64("load_event_end_ms", readout.LoadEventEnd),
		zap.Int64("first_paint_ms", readout.FirstPaint),
		zap.Int64("first_contentful_paint_ms", readout.FirstContentfulPaint),
		zap.Int64("resources", readout.Resources),
	)
	return nil
}

func init() {
	measureCmd.Flags().IntVarP(&iterations, "iterations", "n", 1, "number of measurement iterations")
	measureCmd.Flags().StringVar(&waitID, "wait-id", "", "wait for an element with this id before measuring")
	measureCmd.Flags().StringVar(&waitSelector, "wait-selector", "", "wait for an element matching this CSS selector before measuring")
	measureCmd.Flags().StringVar(&waitXPath, "wait-xpath", "", "wait for an element matching this XPath before measuring")
	measureCmd.Flags().StringVar(&waitScript, "wait-script", "", "wait until this script fragment evaluates truthy before measuring")
	measureCmd.Flags().IntVar(&waitTimeoutMs, "wait-timeout-ms", 0, "element/script wait timeout in ms (0 uses the configured default)")
	measureCmd.Flags().StringVar(&clickSelector, "click-selector", "", "click the element matching this CSS selector before measuring")
	measureCmd.Flags().StringVar(&clickXPath, "click-xpath", "", "click the element matching this XPath before measuring")
	measureCmd.Flags().BoolVar(&clickWait, "click-wait", false, "after a click, wait for the page to settle")
	rootCmd.AddCommand(measureCmd)
}
