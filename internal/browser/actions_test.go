// internal/browser/actions_test.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestActions(driver Driver, complete CompletionCheck, logger *zap.Logger) *Actions {
	if logger == nil {
		logger = zap.NewNop()
	}
	waiter := NewWaiter(driver, complete, 0, 10*time.Millisecond, logger)
	return NewActions(driver, waiter, logger)
}

func TestClickWithoutWaitSkipsSettle(t *testing.T) {
	var clicked atomic.Int32
	driver := &fakeDriver{
		click: func(ctx context.Context, loc *Locator) error {
			clicked.Add(1)
			return nil
		},
	}
	a := newTestActions(driver, neverComplete(t), nil)

	require.NoError(t, a.ClickBySelector(context.Background(), ".go", nil))
	require.NoError(t, a.ClickBySelector(context.Background(), ".go", &ClickOptions{Wait: false}))
	assert.Equal(t, int32(2), clicked.Load())
}

func TestClickWithWaitSettlesAfterDispatch(t *testing.T) {
	var order []string
	var mu sync.Mutex
	driver := &fakeDriver{
		click: func(ctx context.Context, loc *Locator) error {
			mu.Lock()
			order = append(order, "click")
			mu.Unlock()
			return nil
		},
	}
	complete := func(ctx context.Context) error {
		mu.Lock()
		order = append(order, "settle")
		mu.Unlock()
		return nil
	}
	a := newTestActions(driver, complete, nil)

	require.NoError(t, a.ClickByXPath(context.Background(), "//button", &ClickOptions{Wait: true}))
	assert.Equal(t, []string{"click", "settle"}, order)
}

func TestClickWithWaitReturnsSettleResult(t *testing.T) {
	sentinel := errors.New("page never settled")
	a := newTestActions(&fakeDriver{}, func(ctx context.Context) error { return sentinel }, nil)

	err := a.ClickBySelector(context.Background(), ".go", &ClickOptions{Wait: true})
	assert.ErrorIs(t, err, sentinel)
}

func TestClickFailureYieldsActionErrorAndNoSettle(t *testing.T) {
	cases := []struct {
		name  string
		click func(a *Actions, ctx context.Context) error
		kind  LocatorKind
		value string
	}{
		{
			"ByXPath",
			func(a *Actions, ctx context.Context) error {
				return a.ClickByXPath(ctx, "//missing", &ClickOptions{Wait: true})
			},
			LocatorXPath, "//missing",
		},
		{
			"BySelector",
			func(a *Actions, ctx context.Context) error {
				return a.ClickBySelector(ctx, ".missing", &ClickOptions{Wait: true})
			},
			LocatorSelector, ".missing",
		},
		{
			"ByID",
			func(a *Actions, ctx context.Context) error {
				return a.ClickByID(ctx, "missing", &ClickOptions{Wait: true})
			},
			LocatorID, "missing",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			driver := &fakeDriver{
				click: func(ctx context.Context, loc *Locator) error {
					return errors.New("no such element")
				},
			}
			a := newTestActions(driver, neverComplete(t), nil)

			err := tc.click(a, context.Background())
			var aerr *ActionFailureError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, "click", aerr.Action)
			require.NotNil(t, aerr.Locator)
			assert.Equal(t, tc.kind, aerr.Locator.Kind)
			assert.Equal(t, tc.value, aerr.Locator.Value)
			assert.NotContains(t, err.Error(), "no such element")
		})
	}
}

func TestClickAtCursor(t *testing.T) {
	t.Run("PassesNilLocator", func(t *testing.T) {
		var got *Locator = &Locator{Kind: LocatorID, Value: "sentinel"}
		driver := &fakeDriver{
			click: func(ctx context.Context, loc *Locator) error {
				got = loc
				return nil
			},
		}
		a := newTestActions(driver, neverComplete(t), nil)

		require.NoError(t, a.ClickAtCursor(context.Background(), nil))
		assert.Nil(t, got)
	})

	t.Run("FailureOmitsLocator", func(t *testing.T) {
		driver := &fakeDriver{
			click: func(ctx context.Context, loc *Locator) error {
				return errors.New("dispatch failed")
			},
		}
		a := newTestActions(driver, neverComplete(t), nil)

		err := a.ClickAtCursor(context.Background(), nil)
		var aerr *ActionFailureError
		require.ErrorAs(t, err, &aerr)
		assert.Nil(t, aerr.Locator)
		assert.Contains(t, err.Error(), "current pointer position")
	})
}

func TestClickEmitsDiagnosticThenRaises(t *testing.T) {
	logger, logs := observedLogger()
	driver := &fakeDriver{
		click: func(ctx context.Context, loc *Locator) error {
			return errors.New("raw dispatch cause")
		},
	}
	waiter := NewWaiter(driver, nil, 0, 10*time.Millisecond, logger)
	a := NewActions(driver, waiter, logger)

	err := a.ClickBySelector(context.Background(), ".go", nil)
	require.Error(t, err)

	errorEntries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	debugEntries := logs.FilterLevelExact(zapcore.DebugLevel).All()
	require.Len(t, errorEntries, 1)
	require.Len(t, debugEntries, 1)
	assert.Contains(t, errorEntries[0].ContextMap()["target"], ".go")
	assert.Contains(t, fmt.Sprint(debugEntries[0].ContextMap()["error"]), "raw dispatch cause")
}

func TestClickDispatchesAreSerialized(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	driver := &fakeDriver{
		click: func(ctx context.Context, loc *Locator) error {
			n := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		},
	}
	a := newTestActions(driver, neverComplete(t), nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.ClickAtCursor(context.Background(), nil))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load(), "two dispatches from one instance must not interleave")
}
