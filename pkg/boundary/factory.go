package boundary

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/logging"
)

// ClasspathSource supplies the resolved classpath of a boundary.
type ClasspathSource interface {
	Classpath(ctx context.Context) ([]string, error)
}

// ClasspathFunc adapts a function to ClasspathSource.
type ClasspathFunc func(ctx context.Context) ([]string, error)

// Classpath implements ClasspathSource.
func (f ClasspathFunc) Classpath(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticClasspath is a fixed list of classpath entries.
type StaticClasspath []string

// Classpath implements ClasspathSource.
func (s StaticClasspath) Classpath(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// Factory builds one Boundary per execution attempt.
type Factory struct {
	// Classpath resolves the implementation's private entries. Nil means none.
	Classpath ClasspathSource

	// Parent is the host loader behind the filter. Nil means an empty Namespace.
	Parent Loader

	// Rules guard the link to Parent.
	Rules Rules

	// SharedLocations are appended to the resolved classpath. Entries may be
	// doublestar globs; entries matching nothing are dropped with a warning.
	SharedLocations []string

	// Implementations seeds the boundary's own symbols. Nil means api.DefaultRegistry.
	Implementations *api.Registry

	Logger *slog.Logger
}

// CreateBoundary validates the rules, resolves the classpath, adds the
// shared locations and freezes the result into a new Boundary.
func (f *Factory) CreateBoundary(ctx context.Context) (*Boundary, error) {
	logger := f.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	filter, err := NewFilter(f.Parent, f.Rules)
	if err != nil {
		return nil, err
	}

	var resolved []string
	if f.Classpath != nil {
		resolved, err = f.Classpath.Classpath(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve classpath: %w", err)
		}
	}

	id := uuid.NewString()
	logger = logging.Boundary(logging.Component(logger, "boundary"), id)

	classpath := dedupe(append(resolved, expandShared(f.SharedLocations, logger)...))

	reg := f.Implementations
	if reg == nil {
		reg = api.DefaultRegistry
	}
	impls := make(map[string]api.Factory)
	reg.Each(func(name string, fn api.Factory) {
		impls[name] = fn
	})

	logger.Debug("boundary created", "classpath", len(classpath), "implementations", len(impls))
	return &Boundary{
		id:              id,
		filter:          filter,
		classpath:       classpath,
		implementations: impls,
		logger:          logger,
	}, nil
}

// expandShared expands globs and drops locations that do not exist.
func expandShared(locations []string, logger *slog.Logger) []string {
	var out []string
	for _, loc := range locations {
		matches, err := doublestar.FilepathGlob(loc)
		if err != nil {
			logger.Warn("invalid shared location", "location", loc, "error", err)
			continue
		}
		if len(matches) == 0 {
			logger.Warn("shared location not found, dropping", "location", loc)
			continue
		}
		out = append(out, matches...)
	}
	return out
}

// dedupe makes entries absolute and removes repeats, keeping first occurrences.
func dedupe(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if abs, err := filepath.Abs(e); err == nil {
			e = abs
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
