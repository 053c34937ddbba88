package primitive

import (
	"sort"
	"sync"
)

// Registry maps chain family tags to their Primitive implementations.
// At most one primitive per chain type; re-registering overwrites.
// Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	primitives map[ChainType]Primitive
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		primitives: make(map[ChainType]Primitive),
	}
}

// Register adds or replaces the primitive for its chain type.
func (r *Registry) Register(p Primitive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primitives[p.ChainType()] = p
}

// Get returns the primitive for chain, or nil if none is registered.
func (r *Registry) Get(chain ChainType) Primitive {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primitives[chain]
}

// Has reports whether a primitive is registered for chain.
func (r *Registry) Has(chain ChainType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.primitives[chain]
	return ok
}

// RegisteredChains returns the registered chain tags in sorted order.
func (r *Registry) RegisteredChains() []ChainType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chains := make([]ChainType, 0, len(r.primitives))
	for chain := range r.primitives {
		chains = append(chains, chain)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })
	return chains
}

// Clear removes every registration. Intended for test teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primitives = make(map[ChainType]Primitive)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry. Registration happens
// explicitly at startup via RegisterDefaults, never as an import side
// effect.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterDefaults registers the built-in chain families on r.
func RegisterDefaults(r *Registry) {
	r.Register(NewEVM())
	r.Register(NewSolana())
}
