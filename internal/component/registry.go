package component

import (
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned by Resolve for names with no registration.
// Callers that report "unknown component" failures branch on it.
var ErrNotFound = fmt.Errorf("component not found")

// Registry maps component names to their implementations.
//
// A Registry is created per application instance and passed by reference
// into theme bootstrap hooks; there is deliberately no package-level
// default registry, so tests can supply a fresh, isolated one.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// Register adds a component under its declared name.
// Registering a nil component, an invalid name, or a name that is already
// taken is an error; name collisions are surfaced to the caller so that a
// misconfigured theme aborts startup instead of silently overwriting.
func (r *Registry) Register(c Component) error {
	if c == nil {
		return fmt.Errorf("cannot register nil component")
	}
	name := c.Name()
	if !ValidName(name) {
		return fmt.Errorf("invalid component name %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; exists {
		return fmt.Errorf("component %q already registered", name)
	}
	r.components[name] = c
	return nil
}

// Resolve returns the component registered under name.
// The returned error wraps ErrNotFound when no registration exists.
func (r *Registry) Resolve(name string) (Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c, nil
}

// Has reports whether a component is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.components[name]
	return ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered components.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
