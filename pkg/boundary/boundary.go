package boundary

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/getmockd/mockrunner/pkg/api"
)

// Boundary is one isolated loading layer. Lookups go to the host through
// its Filter first; whatever the host does not supply is answered from the
// boundary's own implementations and classpath.
type Boundary struct {
	id              string
	filter          *Filter
	classpath       []string
	implementations map[string]api.Factory
	logger          *slog.Logger
}

// ID returns the unique identifier of the boundary.
func (b *Boundary) ID() string {
	return b.id
}

// Classpath returns a copy of the frozen classpath.
func (b *Boundary) Classpath() []string {
	return append([]string(nil), b.classpath...)
}

// Rules returns the filter rules guarding the host.
func (b *Boundary) Rules() Rules {
	return b.filter.Rules()
}

// Implementations returns the names of the implementations local to the
// boundary in sorted order.
func (b *Boundary) Implementations() []string {
	names := make([]string, 0, len(b.implementations))
	for name := range b.implementations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSymbol implements Loader. Implementation names resolve to api.Factory values.
func (b *Boundary) LoadSymbol(name string) (any, error) {
	v, err := b.filter.LoadSymbol(name)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if f, ok := b.implementations[name]; ok {
		b.logger.Debug("symbol loaded locally", "symbol", name)
		return f, nil
	}
	return nil, err
}

// LoadResource implements Loader.
func (b *Boundary) LoadResource(name string) (string, bool) {
	if loc, ok := b.filter.LoadResource(name); ok {
		return loc, true
	}

	name = strings.TrimPrefix(name, "/")
	for _, entry := range b.classpath {
		if loc, ok := findResource(entry, name); ok {
			b.logger.Debug("resource found", "resource", name, "location", loc)
			return loc, true
		}
	}
	return "", false
}
