package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getmockd/mockrunner/pkg/logging"
)

// DefaultConcurrency bounds parallel artifact downloads.
const DefaultConcurrency = 4

// Entry is one resolved classpath element.
type Entry struct {
	Path       string     `json:"path"`
	Coordinate Coordinate `json:"coordinate"`
}

// Resolver resolves artifacts and their runtime dependency closure.
type Resolver struct {
	logger      *slog.Logger
	proxy       *Proxy
	local       string
	client      *http.Client
	metrics     *Metrics
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithProxy routes every repository through p.
func WithProxy(p *Proxy) Option {
	return func(r *Resolver) { r.proxy = p }
}

// WithLocalRepository sets the local repository directory instead of probing.
func WithLocalRepository(dir string) Option {
	return func(r *Resolver) { r.local = dir }
}

// WithHTTPClient sets the client used for repository requests.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithMetrics records transfers in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithConcurrency bounds parallel downloads. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:      logging.Nop(),
		client:      &http.Client{Timeout: 2 * time.Minute},
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.Component(r.logger, "artifact")
	return r
}

// Proxy returns the configured proxy, or nil.
func (r *Resolver) Proxy() *Proxy {
	return r.proxy
}

// Resolve resolves root and its compile and runtime dependencies against repos.
func (r *Resolver) Resolve(ctx context.Context, root Coordinate, repos ...Repository) ([]Entry, error) {
	return r.ResolveAll(ctx, []Coordinate{root}, repos)
}

// ResolveAll resolves several roots into one classpath. Entries are ordered
// breadth-first and unique by path.
func (r *Resolver) ResolveAll(ctx context.Context, roots []Coordinate, repos []Repository) ([]Entry, error) {
	entries, err := r.resolve(ctx, roots, repos)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	return entries, nil
}

func (r *Resolver) resolve(ctx context.Context, roots []Coordinate, repos []Repository) ([]Entry, error) {
	repos, err := r.prepare(repos)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if err := root.Validate(); err != nil {
			return nil, err
		}
	}

	local := r.local
	if local == "" {
		if local, err = LocalRepository(); err != nil {
			return nil, err
		}
	}
	r.logger.Debug("resolving", "roots", len(roots), "repositories", len(repos), "local", local)

	s := &session{
		logger: r.logger,
		repos:  repos,
		transport: &transport{
			local:   local,
			client:  r.client,
			logger:  r.logger,
			metrics: r.metrics,
		},
		raw:    make(map[string]*pom),
		models: make(map[string]*model),
	}

	nodes, err := s.collect(ctx, roots)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, nodes, r.concurrency)
}

// prepare validates repos and attaches the proxy to each of them.
func (r *Resolver) prepare(repos []Repository) ([]Repository, error) {
	if len(repos) == 0 {
		return nil, ErrNoRepositories
	}
	var errs []error
	for _, repo := range repos {
		if err := repo.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if r.proxy != nil {
		r.logger.Debug("using proxy", "proxy", r.proxy.String())
	}
	return applyProxy(repos, r.proxy), nil
}
