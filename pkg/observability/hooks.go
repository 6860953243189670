// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about pipeline stages, artifact store traffic, and
// served HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The core packages never import a metrics library. The HTTP server
// registers a Prometheus implementation (see pkg/server) when it starts.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, dir)
//	// ... read the corpus ...
//	observability.Pipeline().OnLoadComplete(ctx, dir, recipeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the build pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, dir string)
	OnLoadComplete(ctx context.Context, dir string, recipes int, duration time.Duration, err error)

	// Index events
	OnIndexStart(ctx context.Context, recipes int)
	OnIndexComplete(ctx context.Context, groups, skipped int, duration time.Duration, err error)

	// Loop detection events
	OnLoopsStart(ctx context.Context, outputs int)
	OnLoopsComplete(ctx context.Context, pairs int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from artifact store operations.
type StoreHooks interface {
	// OnStoreRead records a read; hit is false when the key was missing.
	OnStoreRead(ctx context.Context, backend string, hit bool)

	// OnStoreWrite records a write of size bytes.
	OnStoreWrite(ctx context.Context, backend string, size int)

	// OnStoreDelete records a deletion.
	OnStoreDelete(ctx context.Context, backend string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the artifact server.
type HTTPHooks interface {
	// OnRequest records a served request. Route is the matched pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnIndexStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnIndexComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLoopsStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLoopsComplete(context.Context, int, time.Duration, error)      {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreRead(context.Context, string, bool) {}
func (NoopStoreHooks) OnStoreWrite(context.Context, string, int) {}
func (NoopStoreHooks) OnStoreDelete(context.Context, string)     {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
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

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
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
	pipelineHooks = NoopPipelineHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
