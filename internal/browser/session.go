// internal/browser/session.go
// A Session owns one browser tab and the engines that drive it. The wait and
// action engines borrow the session's driver and completion check for their
// lifetime; the session owns the browser process and tab contexts and tears
// them down on Close.
package browser

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/redspotinnovations/browsertime/internal/config"
)

// Session is a single live browser tab plus the command engines bound to it.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	allocCancel context.CancelFunc
	logger      *zap.Logger
	cfg         *config.Config

	driver  Driver
	waiter  *Waiter
	actions *Actions

	closeOnce sync.Once
}

// NewSession launches a browser, opens a tab, and wires the driver, waiter,
// and actions engines to it. The returned session must be closed.
func NewSession(parentCtx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()
	log := logger.With(zap.String("session_id", sessionID))

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, buildAllocatorOptions(cfg.Browser)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	// Confirm the browser starts and responds before handing the session out.
	startCtx, cancelStart := context.WithTimeout(tabCtx, 30*time.Second)
	defer cancelStart()
	if err := chromedp.Run(startCtx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	driver := newCDPDriver(tabCtx, log.Named("driver"))
	complete := PageCompleteCheck(driver,
		cfg.PageComplete.Script, cfg.PageComplete.CheckInterval, cfg.PageComplete.Timeout,
		log.Named("complete"))
	waiter := NewWaiter(driver, complete, cfg.Wait.DefaultTimeout, cfg.Wait.PollInterval, log.Named("wait"))
	actions := NewActions(driver, waiter, log.Named("actions"))

	log.Info("Session started.")
	return &Session{
		id:          sessionID,
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      log,
		cfg:         cfg,
		driver:      driver,
		waiter:      waiter,
		actions:     actions,
	}, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Driver exposes the session's driver handle.
func (s *Session) Driver() Driver { return s.driver }

// Waiter exposes the bounded-wait engine bound to this session.
func (s *Session) Waiter() *Waiter { return s.waiter }

// Actions exposes the interaction engine bound to this session.
func (s *Session) Actions() *Actions { return s.actions }

// Navigate loads the URL, bounded by the configured navigation timeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	timeout := s.cfg.Network.NavigationTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	navCtx, cancelNav := context.WithTimeout(ctx, timeout)
	defer cancelNav()

	s.logger.Info("Navigating.", zap.String("url", url))
	runCtx, cancel := combineContext(s.ctx, navCtx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, timeout, navCtx.Err())
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Close shuts the tab and the browser process down. Safe to call twice.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Info("Closing session.")
		s.cancel()
		s.allocCancel()
	})
	return nil
}

// buildAllocatorOptions assembles the browser launch flags from config.
func buildAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("disable-extensions", true),
	)
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight))
	}
	for _, arg := range cfg.Args {
		name, value, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if name == "" {
			continue
		}
		if found {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}
	// Container-friendly flags.
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}
	return opts
}
