// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about merge runs and document decoding.
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
//   - Keeps the merge engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMergeHooks(&myMergeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Merge().OnInputStart(ctx, file)
//	// ... fold the input ...
//	observability.Merge().OnInputComplete(ctx, file, elements, signals, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Merge Hooks
// =============================================================================

// MergeHooks receives events from the panel merge engine.
type MergeHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID string, inputs int)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration, err error)

	// Per-input events
	OnInputStart(ctx context.Context, file string)
	OnInputComplete(ctx context.Context, file string, elements, signals int, duration time.Duration, err error)

	// OnConflict records a fatal merge conflict (library, design rules,
	// unsupported feature) before the run aborts.
	OnConflict(ctx context.Context, file, code string)
}

// =============================================================================
// Codec Hooks
// =============================================================================

// CodecHooks receives events from board document decoding and encoding.
type CodecHooks interface {
	// OnDecode records a decoded input document.
	OnDecode(ctx context.Context, file string, size int, duration time.Duration, err error)

	// OnEncode records a written output document.
	OnEncode(ctx context.Context, file string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMergeHooks is a no-op implementation of MergeHooks.
type NoopMergeHooks struct{}

func (NoopMergeHooks) OnRunStart(context.Context, string, int)                          {}
func (NoopMergeHooks) OnRunComplete(context.Context, string, time.Duration, error)      {}
func (NoopMergeHooks) OnInputStart(context.Context, string)                             {}
func (NoopMergeHooks) OnInputComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopMergeHooks) OnConflict(context.Context, string, string) {}

// NoopCodecHooks is a no-op implementation of CodecHooks.
type NoopCodecHooks struct{}

func (NoopCodecHooks) OnDecode(context.Context, string, int, time.Duration, error) {}
func (NoopCodecHooks) OnEncode(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Registration
// =============================================================================

var (
	mu         sync.RWMutex
	mergeHooks MergeHooks = NoopMergeHooks{}
	codecHooks CodecHooks = NoopCodecHooks{}
)

// SetMergeHooks registers merge hooks. Call at startup before any merge runs.
func SetMergeHooks(h MergeHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopMergeHooks{}
	}
	mergeHooks = h
}

// SetCodecHooks registers codec hooks. Call at startup before any decoding.
func SetCodecHooks(h CodecHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCodecHooks{}
	}
	codecHooks = h
}

// Merge returns the registered merge hooks.
func Merge() MergeHooks {
	mu.RLock()
	defer mu.RUnlock()
	return mergeHooks
}

// Codec returns the registered codec hooks.
func Codec() CodecHooks {
	mu.RLock()
	defer mu.RUnlock()
	return codecHooks
}
