// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about solve execution, cache operations, and job handling.
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
//	    observability.SetSolveHooks(&mySolveHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solve().OnSolveStart(ctx, strategy, itemCount)
//	// ... run the search ...
//	observability.Solve().OnSolveComplete(ctx, strategy, score, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solve Hooks
// =============================================================================

// SolveHooks receives events from the layout pipeline.
type SolveHooks interface {
	// Seeding events
	OnSeedStart(ctx context.Context, strategy string, itemCount int)
	OnSeedComplete(ctx context.Context, strategy string, placed int, duration time.Duration)

	// Solve events
	OnSolveStart(ctx context.Context, strategy string, itemCount int)
	OnSolveComplete(ctx context.Context, strategy string, score float64, duration time.Duration, err error)

	// Refinement events
	OnRefineComplete(ctx context.Context, strategy string, before, after float64, duration time.Duration)

	// Validation events
	OnValidateComplete(ctx context.Context, layoutID string, valid bool, duration time.Duration)
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
// Job Hooks
// =============================================================================

// JobHooks receives events from asynchronous job handling.
type JobHooks interface {
	// OnJobStart records a job picked up for processing.
	OnJobStart(ctx context.Context, jobID, kind string)

	// OnJobProgress records a progress update.
	OnJobProgress(ctx context.Context, jobID string, fraction float64)

	// OnJobComplete records a finished job.
	OnJobComplete(ctx context.Context, jobID, kind string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolveHooks is a no-op implementation of SolveHooks.
type NoopSolveHooks struct{}

func (NoopSolveHooks) OnSeedStart(context.Context, string, int)                             {}
func (NoopSolveHooks) OnSeedComplete(context.Context, string, int, time.Duration)           {}
func (NoopSolveHooks) OnSolveStart(context.Context, string, int)                            {}
func (NoopSolveHooks) OnSolveComplete(context.Context, string, float64, time.Duration, error) {
}
func (NoopSolveHooks) OnRefineComplete(context.Context, string, float64, float64, time.Duration) {
}
func (NoopSolveHooks) OnValidateComplete(context.Context, string, bool, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopJobHooks is a no-op implementation of JobHooks.
type NoopJobHooks struct{}

func (NoopJobHooks) OnJobStart(context.Context, string, string)                          {}
func (NoopJobHooks) OnJobProgress(context.Context, string, float64)                      {}
func (NoopJobHooks) OnJobComplete(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solveHooks SolveHooks = NoopSolveHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	jobHooks   JobHooks   = NoopJobHooks{}
	hooksMu    sync.RWMutex
)

// SetSolveHooks registers custom solve hooks.
// This should be called once at application startup before any solve operations.
func SetSolveHooks(h SolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solveHooks = h
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

// SetJobHooks registers custom job hooks.
// This should be called once at application startup before any jobs run.
func SetJobHooks(h JobHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		jobHooks = h
	}
}

// Solve returns the registered solve hooks.
func Solve() SolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solveHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Job returns the registered job hooks.
func Job() JobHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return jobHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solveHooks = NoopSolveHooks{}
	cacheHooks = NoopCacheHooks{}
	jobHooks = NoopJobHooks{}
}
