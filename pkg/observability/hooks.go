// Package observability provides hooks for metrics and logging of layout runs.
//
// Libraries never import a metrics backend directly. They call the registered
// hooks, which default to no-ops; main registers a real implementation (see
// the prom subpackage) at startup:
//
//	func main() {
//	    m := prom.New("colgrid")
//	    observability.SetLayoutHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	}
//
// Libraries emit events around their work:
//
//	observability.Layout().OnScenarioStart(ctx, name, len(columns))
//	// ... apply steps ...
//	observability.Layout().OnScenarioComplete(ctx, name, steps, duration, err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/colgrid/pkg/grid"
)

// LayoutHooks receives events from scenario runs.
type LayoutHooks interface {
	// OnScenarioStart records the start of a scenario run.
	OnScenarioStart(ctx context.Context, scenario string, columns int)

	// OnScenarioComplete records the end of a scenario run.
	OnScenarioComplete(ctx context.Context, scenario string, steps int, duration time.Duration, err error)

	// OnFlush records the cumulative engine counters after a settled step.
	OnFlush(ctx context.Context, scenario string, stats grid.Stats)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnScenarioStart(context.Context, string, int)                          {}
func (NoopLayoutHooks) OnScenarioComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLayoutHooks) OnFlush(context.Context, string, grid.Stats)                           {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers layout hooks. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
}
