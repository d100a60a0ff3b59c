// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies to the sequencing core. Consumers register hooks at startup to
// receive events about trial runs, cache operations and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [PromHooks] implements every interface with Prometheus collectors and is
// what `necklace serve` registers.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    hooks := observability.NewPromHooks(prometheus.DefaultRegisterer)
//	    observability.SetTrialHooks(hooks)
//	    observability.SetCacheHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Trials().OnRunStart(ctx, fingerprint, trials, workers)
//	// ... run trials ...
//	observability.Trials().OnRunComplete(ctx, fingerprint, trials, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Trial Hooks
// =============================================================================

// TrialHooks receives events from the trial harness.
type TrialHooks interface {
	// OnRunStart records the start of a batch of trials on one group set.
	OnRunStart(ctx context.Context, fingerprint string, trials, workers int)

	// OnRunComplete records the end of a batch, successful or not.
	OnRunComplete(ctx context.Context, fingerprint string, trials int, duration time.Duration, err error)

	// OnViolation records a built sequence that failed validation. On
	// feasible input this never fires; any call points at a builder bug.
	OnViolation(ctx context.Context, fingerprint, sequence string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTrialHooks is a no-op implementation of TrialHooks.
type NoopTrialHooks struct{}

func (NoopTrialHooks) OnRunStart(context.Context, string, int, int)                       {}
func (NoopTrialHooks) OnRunComplete(context.Context, string, int, time.Duration, error) {}
func (NoopTrialHooks) OnViolation(context.Context, string, string)                       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	trialHooks TrialHooks = NoopTrialHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetTrialHooks registers custom trial hooks.
// This should be called once at application startup before any runs.
func SetTrialHooks(h TrialHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		trialHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Trials returns the registered trial hooks.
func Trials() TrialHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return trialHooks
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
	trialHooks = NoopTrialHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
