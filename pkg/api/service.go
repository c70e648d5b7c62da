package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Namespace is the symbol prefix of the shared contract.
const Namespace = "mockrunner.api."

// MockService is the capability set every mock implementation provides.
// An instance is good for one Start/Stop cycle.
type MockService interface {
	// Start brings the mock up for the given task. It must not return before
	// the mock accepts requests, or before it has failed.
	Start(ctx context.Context, task *Task) error

	// Stop shuts the mock down. Stopping a mock that is not running is a no-op.
	Stop() error

	// IsRunning reports whether the mock is serving.
	IsRunning() bool
}

// Factory creates a fresh, unstarted implementation instance.
type Factory func() MockService

// Registry maps implementation names to factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return ErrNilFactory
	}
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrImplementationExists, name)
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered implementation names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every registered factory.
func (r *Registry) Each(fn func(name string, f Factory)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, f := range r.factories {
		fn(name, f)
	}
}

// DefaultRegistry holds the implementations registered by package init functions.
var DefaultRegistry = NewRegistry()

// MustRegister registers f in DefaultRegistry and panics on error.
func MustRegister(name string, f Factory) {
	if err := DefaultRegistry.Register(name, f); err != nil {
		panic(err)
	}
}
