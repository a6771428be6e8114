// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, and the HTTP
// service.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, dialect)
//	// ... do parsing ...
//	observability.Pipeline().OnParseComplete(ctx, dialect, nodeCount, duration, warnings)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the diagram pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, dialect string)
	OnParseComplete(ctx context.Context, dialect string, nodeCount int, duration time.Duration, warnings int)

	// Layout events
	OnLayoutStart(ctx context.Context, dialect string, nodeCount int)
	OnLayoutComplete(ctx context.Context, dialect string, duration time.Duration, reversedEdges int)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
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
// Service Hooks
// =============================================================================

// ServiceHooks receives events from the HTTP API.
type ServiceHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, int)  {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, int)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServiceHooks is a no-op implementation of ServiceHooks.
type NoopServiceHooks struct{}

func (NoopServiceHooks) OnRequest(context.Context, string, string)                        {}
func (NoopServiceHooks) OnResponse(context.Context, string, string, int, time.Duration)   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serviceHooks  ServiceHooks  = NoopServiceHooks{}
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

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServiceHooks registers custom service hooks.
// This should be called once at application startup before serving requests.
func SetServiceHooks(h ServiceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serviceHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Service returns the registered service hooks.
func Service() ServiceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serviceHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	serviceHooks = NoopServiceHooks{}
}
