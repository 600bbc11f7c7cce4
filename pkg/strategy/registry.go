package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
)

// Registry holds the process-wide factory set (spec §4.3, §9 "global
// mutable registry"). Lifecycle: Initialize once at startup; content is
// immutable thereafter except through RegisterFactory, which is safe to
// call concurrently with SelectStrategy.
type Registry struct {
	mu        sync.RWMutex
	factories []Factory
}

var (
	global     *Registry
	globalOnce sync.Once
	globalMu   sync.Mutex
)

// Initialize builds the process-wide registry with the built-in factories
// plus any extras, idempotently. A second call to Initialize is a no-op
// returning the existing registry, matching spec §9's "initialization is
// idempotent" (distinct from Secret Store's re-init-fails semantics: the
// registry is read-mostly global state, not a resource with exclusive
// ownership).
func Initialize(hostProcessName string, extras ...Factory) *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
		global.RegisterFactory(newNoStrategyFactory(hostProcessName))
		global.RegisterFactory(newBrowserStrategyFactory())
		global.RegisterFactory(newDefaultStrategyFactory())
		for _, f := range extras {
			global.RegisterFactory(f)
		}
	})
	return global
}

// Global returns the process-wide registry, or nil if Initialize has not
// run yet.
func Global() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// NewRegistry constructs an empty registry (mainly for tests; production
// code uses Initialize).
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterFactory adds f to the registry (spec §4.3 "register_factory").
// Safe for concurrent use with SelectStrategy.
func (r *Registry) RegisterFactory(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, f)
	sort.SliceStable(r.factories, func(i, j int) bool {
		return r.factories[i].Priority() > r.factories[j].Priority()
	})
}

// ErrNoStrategy is returned by SelectStrategy when no registered factory
// supports ctx. Built-in DefaultStrategy supports every process, so this
// only occurs against a registry missing its built-ins (e.g. in a test).
var ErrNoStrategy = eurora.WithKind(eurora.KindStrategy, fmt.Errorf("no registered factory supports this process"))

// SelectStrategy returns the highest-priority Factory whose SupportsProcess
// yields a non-zero score for ctx (spec §4.3, §8 "Strategy selection").
func (r *Registry) SelectStrategy(ctx ProcessContext) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.factories {
		if f.SupportsProcess(ctx) > 0 {
			return f, nil
		}
	}
	return nil, ErrNoStrategy
}

// Factories returns a snapshot of the currently registered factories,
// highest priority first.
func (r *Registry) Factories() []Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Factory, len(r.factories))
	copy(out, r.factories)
	return out
}
