package boundary

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Loader resolves symbols and resources by name.
type Loader interface {
	// LoadSymbol returns the value bound to name or an error matching ErrNotFound.
	LoadSymbol(name string) (any, error)

	// LoadResource returns the location of the named resource.
	LoadResource(name string) (string, bool)
}

// Namespace is a host-side Loader populated explicitly. It is the parent of
// every Filter and is safe for concurrent use.
type Namespace struct {
	mu        sync.RWMutex
	symbols   map[string]any
	resources map[string]string
}

// NewNamespace creates an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		symbols:   make(map[string]any),
		resources: make(map[string]string),
	}
}

// Define binds a symbol name to a value, replacing any previous binding.
func (n *Namespace) Define(name string, value any) *Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.symbols[name] = value
	return n
}

// DefineResource binds a resource name to a location.
func (n *Namespace) DefineResource(name, location string) *Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resources[strings.TrimPrefix(name, "/")] = location
	return n
}

// LoadSymbol implements Loader.
func (n *Namespace) LoadSymbol(name string) (any, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return v, nil
}

// LoadResource implements Loader.
func (n *Namespace) LoadResource(name string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	loc, ok := n.resources[strings.TrimPrefix(name, "/")]
	return loc, ok
}

// Symbols returns the defined symbol names in sorted order.
func (n *Namespace) Symbols() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.symbols))
	for name := range n.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
