// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in dn-house emit events through the hooks registered here
// instead of depending on a metrics backend. The defaults are no-ops; the
// CLI registers [LogHooks] when --verbose is set so every backend request,
// cache lookup, and placement run shows up in the debug log.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetHTTPHooks(observability.NewLogHooks(logger))
//
// Libraries call hooks to emit events:
//
//	observability.Menu().OnPlacement(ctx, requested, placed, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Menu Hooks
// =============================================================================

// MenuHooks receives events from the menu pipeline (load → place → render).
type MenuHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, items int, duration time.Duration, err error)

	// OnPlacement reports how many of the requested cards found a spot.
	OnPlacement(ctx context.Context, requested, placed int, duration time.Duration)

	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from backend client requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (no response was received).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMenuHooks is a no-op implementation of MenuHooks.
type NoopMenuHooks struct{}

func (NoopMenuHooks) OnLoadStart(context.Context, string)                               {}
func (NoopMenuHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopMenuHooks) OnPlacement(context.Context, int, int, time.Duration)              {}
func (NoopMenuHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	menuHooks  MenuHooks  = NoopMenuHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetMenuHooks registers custom menu hooks. Nil is ignored.
func SetMenuHooks(h MenuHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		menuHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Menu returns the registered menu hooks.
func Menu() MenuHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return menuHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	menuHooks = NoopMenuHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
