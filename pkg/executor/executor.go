package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/boundary"
	"github.com/getmockd/mockrunner/pkg/logging"
	"github.com/getmockd/mockrunner/pkg/worker"
)

// BoundaryFactory creates the isolation boundary of one execution.
type BoundaryFactory interface {
	CreateBoundary(ctx context.Context) (*boundary.Boundary, error)
}

// Executor starts and stops one implementation instance.
type Executor struct {
	factory        BoundaryFactory
	implementation string
	pool           *worker.Pool
	logger         *slog.Logger

	mu       sync.Mutex
	started  bool
	boundary *boundary.Boundary
	service  api.MockService
}

// Option configures an Executor.
type Option func(*Executor)

// WithPool runs start jobs on p instead of the shared pool.
func WithPool(p *worker.Pool) Option {
	return func(e *Executor) {
		if p != nil {
			e.pool = p
		}
	}
}

// WithLogger sets the executor logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an executor for the named implementation. Missing arguments
// are reported by Start.
func New(factory BoundaryFactory, implementation string, opts ...Option) *Executor {
	e := &Executor{
		factory:        factory,
		implementation: implementation,
		logger:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = worker.Shared()
	}
	e.logger = logging.Component(e.logger, "executor").With("implementation", implementation)
	return e
}

// Start brings the implementation up for task and blocks until its Start has
// returned. Configuration errors wrap ErrConfiguration; everything else wraps
// ErrStartFailed.
func (e *Executor) Start(ctx context.Context, task *api.Task) error {
	if err := e.validate(task); err != nil {
		return err
	}

	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.started = true
	e.mu.Unlock()

	b, err := e.factory.CreateBoundary(ctx)
	if err != nil {
		e.logger.Error("boundary construction failed", "error", err)
		return fmt.Errorf("%w: %w", ErrStartFailed, err)
	}
	logger := logging.Boundary(e.logger, b.ID())

	svc, err := worker.Submit(e.pool, ctx, func(ctx context.Context) (api.MockService, error) {
		return e.launch(boundary.NewContext(ctx, b), b, task)
	}).Wait()
	if err != nil {
		logger.Error("start failed", "error", err)
		return fmt.Errorf("%w: %w", ErrStartFailed, err)
	}

	e.mu.Lock()
	e.boundary = b
	e.service = svc
	e.mu.Unlock()

	logger.Info("mock service started", "endpoint", task.Endpoint())
	return nil
}

// launch runs on a worker with ctx carrying b.
func (e *Executor) launch(ctx context.Context, b *boundary.Boundary, task *api.Task) (api.MockService, error) {
	sym, err := b.LoadSymbol(e.implementation)
	if err != nil {
		return nil, err
	}
	factory, ok := sym.(api.Factory)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrNotFactory, e.implementation, sym)
	}

	svc := factory()
	if svc == nil {
		return nil, fmt.Errorf("%w: %s returned nil", ErrNotFactory, e.implementation)
	}
	if err := svc.Start(ctx, task); err != nil {
		return nil, err
	}
	return svc, nil
}

func (e *Executor) validate(task *api.Task) error {
	if e.factory == nil {
		return ErrNoBoundaryFactory
	}
	if e.implementation == "" {
		return ErrNoImplementation
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// Stop stops the started instance and releases the boundary. It is a no-op
// when nothing is running; the instance's own error is returned as is.
func (e *Executor) Stop() error {
	e.mu.Lock()
	svc := e.service
	e.service = nil
	e.boundary = nil
	e.mu.Unlock()

	if svc == nil {
		return nil
	}
	e.logger.Debug("stopping mock service")
	return svc.Stop()
}

// IsRunning reports whether the started instance is serving.
func (e *Executor) IsRunning() bool {
	e.mu.Lock()
	svc := e.service
	e.mu.Unlock()
	return svc != nil && svc.IsRunning()
}

// Boundary returns the boundary of the running instance, or nil.
func (e *Executor) Boundary() *boundary.Boundary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boundary
}
