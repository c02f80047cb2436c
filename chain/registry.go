package chain

import (
	"fmt"
	"sync"
)

// Registry holds chain specifications for lookup by name.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
}

// NewRegistry creates an empty spec registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]*Spec),
	}
}

// Register adds a spec to the registry. Returns an error if a spec with the
// same name is already registered.
func (r *Registry) Register(s *Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[s.Name]; exists {
		return fmt.Errorf("chain: %q already registered", s.Name)
	}
	r.specs[s.Name] = s
	return nil
}

// Get returns the spec with the given name.
func (r *Registry) Get(name string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// Names returns the names of all registered specs.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	return names
}

var defaultRegistry = func() *Registry {
	r := NewRegistry()
	for _, s := range []*Spec{Mainnet, Sepolia, Holesky} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}()

// Lookup returns a built-in spec by name ("ethereum", "sepolia", "holesky").
func Lookup(name string) (*Spec, bool) {
	return defaultRegistry.Get(name)
}
