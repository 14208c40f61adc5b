// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks at
// startup to receive events about document store traffic and group hierarchy
// resolution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so no library package
// imports a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetHierarchyHooks(&myHierarchyHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Hierarchy().OnResolveStart(ctx, len(ids))
//	// ... index and infer ...
//	observability.Hierarchy().OnResolveComplete(ctx, groupCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	// OnRead records a read operation such as Find or Attributes.
	OnRead(ctx context.Context, op, id string, duration time.Duration)

	// OnWrite records a mutating operation such as SetAttributes.
	OnWrite(ctx context.Context, op, id string, keys int, duration time.Duration)

	// OnError records a failed store operation.
	OnError(ctx context.Context, op, id string, err error)
}

// =============================================================================
// Hierarchy Hooks
// =============================================================================

// HierarchyHooks receives events from group hierarchy resolution.
type HierarchyHooks interface {
	// OnResolveStart records the start of a resolution over n entities.
	OnResolveStart(ctx context.Context, entities int)

	// OnResolveComplete records the end of a resolution.
	OnResolveComplete(ctx context.Context, groups int, duration time.Duration, err error)

	// OnSkip records an entity or group pair left out of the result.
	OnSkip(ctx context.Context, subject string, reason error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnRead(context.Context, string, string, time.Duration)       {}
func (NoopStoreHooks) OnWrite(context.Context, string, string, int, time.Duration) {}
func (NoopStoreHooks) OnError(context.Context, string, string, error)              {}

// NoopHierarchyHooks is a no-op implementation of HierarchyHooks.
type NoopHierarchyHooks struct{}

func (NoopHierarchyHooks) OnResolveStart(context.Context, int)                           {}
func (NoopHierarchyHooks) OnResolveComplete(context.Context, int, time.Duration, error) {}
func (NoopHierarchyHooks) OnSkip(context.Context, string, error)                         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks     StoreHooks     = NoopStoreHooks{}
	hierarchyHooks HierarchyHooks = NoopHierarchyHooks{}
	hooksMu        sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHierarchyHooks registers custom hierarchy hooks.
func SetHierarchyHooks(h HierarchyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		hierarchyHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Hierarchy returns the registered hierarchy hooks.
func Hierarchy() HierarchyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hierarchyHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	hierarchyHooks = NoopHierarchyHooks{}
}
