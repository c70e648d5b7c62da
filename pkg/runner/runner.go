package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	// Registers the bundled SOAP mock implementation.
	_ "github.com/getmockd/mockrunner/internal/soapmock"
	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/artifact"
	"github.com/getmockd/mockrunner/pkg/boundary"
	"github.com/getmockd/mockrunner/pkg/config"
	"github.com/getmockd/mockrunner/pkg/executor"
	"github.com/getmockd/mockrunner/pkg/logging"
	tlsutil "github.com/getmockd/mockrunner/pkg/tls"
	"github.com/getmockd/mockrunner/pkg/worker"
)

// MetricsNamespace prefixes the runner's prometheus metrics.
const MetricsNamespace = "mockrunner"

// ErrNotRunning is returned when an operation needs a started mock.
var ErrNotRunning = errors.New("mock service is not running")

// Runner starts and stops the configured mock.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *http.Client
	version  string
	registry *api.Registry
	reg      prometheus.Registerer
	pool     *worker.Pool

	resolver *artifact.Resolver
	host     *boundary.Namespace
	factory  *boundary.Factory

	mu   sync.Mutex
	exec *executor.Executor
	task *api.Task
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger handed to every component and to the implementation.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHTTPClient sets the client used for repositories and offered to the implementation.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		if c != nil {
			r.client = c
		}
	}
}

// WithVersion sets the version published to the implementation.
func WithVersion(v string) Option {
	return func(r *Runner) { r.version = v }
}

// WithImplementations replaces the registry seeding each boundary.
func WithImplementations(reg *api.Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

// WithRegisterer enables prometheus metrics for the resolver and the worker pool.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Runner) { r.reg = reg }
}

// WithPool sets the worker pool starts run on.
func WithPool(p *worker.Pool) Option {
	return func(r *Runner) { r.pool = p }
}

// New validates cfg and assembles the runner.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		logger:  logging.Nop(),
		client:  &http.Client{Timeout: 5 * time.Minute},
		version: "dev",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = api.DefaultRegistry
	}

	resolver, err := r.newResolver()
	if err != nil {
		return nil, err
	}
	r.resolver = resolver

	if r.pool == nil {
		r.pool, err = r.newPool()
		if err != nil {
			return nil, err
		}
	}

	r.host, err = r.newHost()
	if err != nil {
		return nil, err
	}

	roots, err := cfg.Coordinates()
	if err != nil {
		return nil, err
	}
	r.factory = &boundary.Factory{
		Classpath: &artifact.Classpath{
			Resolver:     r.resolver,
			Roots:        roots,
			Repositories: cfg.Repositories,
		},
		Parent:          r.host,
		Rules:           cfg.Filters,
		SharedLocations: cfg.SharedLocations,
		Implementations: r.registry,
		Logger:          r.logger,
	}
	return r, nil
}

func (r *Runner) newResolver() (*artifact.Resolver, error) {
	proxy, err := r.cfg.ProxySettings()
	if err != nil {
		return nil, err
	}
	opts := []artifact.Option{
		artifact.WithLogger(r.logger),
		artifact.WithHTTPClient(r.client),
		artifact.WithProxy(proxy),
	}
	if r.cfg.LocalRepository != "" {
		opts = append(opts, artifact.WithLocalRepository(r.cfg.LocalRepository))
	}
	if r.reg != nil {
		m, err := artifact.NewMetrics(r.reg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, artifact.WithMetrics(m))
	}
	return artifact.NewResolver(opts...), nil
}

func (r *Runner) newPool() (*worker.Pool, error) {
	if r.reg == nil {
		return worker.Shared(), nil
	}
	m, err := worker.NewMetrics(r.reg, MetricsNamespace)
	if err != nil {
		return nil, err
	}
	return worker.NewPool(worker.WithLogger(r.logger), worker.WithMetrics(m)), nil
}

// newHost defines what the host offers across the boundary. The host's own
// implementations are defined too; the default rules block them so every
// boundary answers with its own copy.
func (r *Runner) newHost() (*boundary.Namespace, error) {
	ns := boundary.NewNamespace().
		Define(api.SymbolLogger, r.logger).
		Define(api.SymbolHTTPClient, r.client).
		Define(api.SymbolVersion, r.version)

	if t := r.cfg.Task; t.CertFile != "" {
		tlsCfg, err := tlsutil.ServerConfig(t.CertFile, t.KeyFile, t.Host)
		if err != nil {
			return nil, err
		}
		ns.Define(api.SymbolTLSConfig, tlsCfg)
	}

	r.registry.Each(func(name string, f api.Factory) {
		ns.Define(name, f)
	})
	return ns, nil
}

// Config returns the configuration the runner was built from.
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// Host returns the host namespace behind every boundary's filter.
func (r *Runner) Host() *boundary.Namespace {
	return r.host
}

// Resolve resolves the configured artifacts without starting anything.
func (r *Runner) Resolve(ctx context.Context) ([]artifact.Entry, error) {
	roots, err := r.cfg.Coordinates()
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, nil
	}
	return r.resolver.ResolveAll(ctx, roots, r.cfg.Repositories)
}

// Check evaluates symbol names against the boundary filter in front of the
// host namespace.
func (r *Runner) Check(names ...string) ([]Verdict, error) {
	filter, err := boundary.NewFilter(r.host, r.cfg.Filters)
	if err != nil {
		return nil, err
	}
	out := make([]Verdict, len(names))
	for i, name := range names {
		decision, rule := filter.Rules().Evaluate(name)
		out[i] = Verdict{Name: name, Decision: decision, Rule: rule}
		_, err := filter.LoadSymbol(name)
		out[i].Visible = err == nil
	}
	return out, nil
}

// Verdict is the filter's answer for one name.
type Verdict struct {
	Name     string            `json:"name"`
	Decision boundary.Decision `json:"-"`
	// Rule is the prefix that decided, if any.
	Rule string `json:"rule,omitempty"`
	// Visible reports whether the host defines the name and the filter lets it through.
	Visible bool `json:"visible"`
}

// Allowed reports whether the filter delegates the name to the host.
func (v Verdict) Allowed() bool {
	return v.Decision == boundary.Delegate
}

// Start starts the mock described by the configuration's task section.
func (r *Runner) Start(ctx context.Context) error {
	task, err := r.cfg.NewTask()
	if err != nil {
		return fmt.Errorf("%w: %w", executor.ErrConfiguration, err)
	}
	return r.StartTask(ctx, task)
}

// StartTask starts the mock for task. A runner runs one mock at a time.
func (r *Runner) StartTask(ctx context.Context, task *api.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exec != nil && r.exec.IsRunning() {
		return executor.ErrAlreadyStarted
	}

	exec := executor.New(r.factory, r.cfg.Implementation,
		executor.WithPool(r.pool),
		executor.WithLogger(r.logger))
	if err := exec.Start(ctx, task); err != nil {
		return err
	}
	r.exec, r.task = exec, task
	return nil
}

// Stop stops the running mock. It is a no-op when nothing runs.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exec == nil {
		return nil
	}
	err := r.exec.Stop()
	r.exec, r.task = nil, nil
	return err
}

// IsRunning reports whether a mock is serving.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exec != nil && r.exec.IsRunning()
}

// Endpoint returns the endpoint of the running mock.
func (r *Runner) Endpoint() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.task == nil {
		return "", ErrNotRunning
	}
	return r.task.Endpoint(), nil
}

// Boundary returns the boundary of the running mock, or nil.
func (r *Runner) Boundary() *boundary.Boundary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exec == nil {
		return nil
	}
	return r.exec.Boundary()
}
