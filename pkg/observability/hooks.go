// Package observability provides hooks for metrics, tracing, and logging.
//
// The package uses a simple hooks pattern: hook interfaces per event
// category, no-op defaults, and a global registry populated once at
// startup. This keeps the core library free of hard dependencies on any
// observability backend while still letting a deployment plug one in.
//
// Register hooks at application startup:
//
//	observability.SetWalkerHooks(&myWalkerHooks{})
//
// Libraries emit events through the accessors:
//
//	observability.Walker().OnFetch(ctx, id, depCount, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// WalkerHooks receives events from dependency graph walks.
type WalkerHooks interface {
	// OnWalkStart is called once per walk, after root filtering.
	OnWalkStart(ctx context.Context, root string)

	// OnFetch is called after every provider fetch, successful or not.
	OnFetch(ctx context.Context, id string, depCount int, err error)

	// OnCycle is called for each detected cycle with its closed path.
	OnCycle(ctx context.Context, path []string)

	// OnWalkComplete is called when the walk terminates.
	OnWalkComplete(ctx context.Context, root string, visited, cycles int, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnHit records a cache hit.
	OnHit(ctx context.Context, backend string)

	// OnMiss records a cache miss.
	OnMiss(ctx context.Context, backend string)

	// OnSet records a cache write.
	OnSet(ctx context.Context, backend string, size int)
}

// HTTPHooks receives events from outgoing HTTP requests.
type HTTPHooks interface {
	// OnRequest records an outgoing request.
	OnRequest(ctx context.Context, method, url string)

	// OnResponse records a response.
	OnResponse(ctx context.Context, method, url string, statusCode int, duration time.Duration)

	// OnError records a transport-level failure.
	OnError(ctx context.Context, method, url string, err error)
}

// NoopWalkerHooks is a no-op implementation of WalkerHooks.
type NoopWalkerHooks struct{}

func (NoopWalkerHooks) OnWalkStart(context.Context, string)                             {}
func (NoopWalkerHooks) OnFetch(context.Context, string, int, error)                     {}
func (NoopWalkerHooks) OnCycle(context.Context, []string)                               {}
func (NoopWalkerHooks) OnWalkComplete(context.Context, string, int, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(context.Context, string)      {}
func (NoopCacheHooks) OnMiss(context.Context, string)     {}
func (NoopCacheHooks) OnSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

var (
	walkerHooks WalkerHooks = NoopWalkerHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetWalkerHooks registers custom walker hooks.
// Call once at application startup before any walk.
func SetWalkerHooks(h WalkerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		walkerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Walker returns the registered walker hooks.
func Walker() WalkerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return walkerHooks
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

// Reset restores all hooks to their no-op defaults. Primarily for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	walkerHooks = NoopWalkerHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
