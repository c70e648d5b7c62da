package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getmockd/mockrunner/pkg/logging"
)

// DefaultKeepAlive is how long an idle worker waits for a job before exiting.
const DefaultKeepAlive = 60 * time.Second

// Pool is a cached pool of workers. The zero value is not usable; use NewPool.
type Pool struct {
	keepAlive time.Duration
	logger    *slog.Logger
	metrics   *Metrics

	// jobs is unbuffered: a send succeeds only when an idle worker receives.
	jobs chan func()
	quit chan struct{}
	wg   sync.WaitGroup

	// Lifecycle management
	lifecycleMu sync.Mutex
	stopped     bool

	// Statistics (atomic)
	workers   int64
	idle      int64
	submitted int64
	completed int64
	failed    int64
	panicked  int64
}

// Option configures a Pool.
type Option func(*Pool)

// WithKeepAlive sets the idle timeout of workers. Non-positive values are ignored.
func WithKeepAlive(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.keepAlive = d
		}
	}
}

// WithLogger sets the pool logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records pool activity in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) { p.metrics = m }
}

// NewPool creates a pool with no workers. Workers start on demand.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		keepAlive: DefaultKeepAlive,
		logger:    logging.Nop(),
		jobs:      make(chan func()),
		quit:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.Component(p.logger, "worker")
	return p
}

var (
	sharedOnce sync.Once
	shared     *Pool
)

// Shared returns the process-wide pool.
func Shared() *Pool {
	sharedOnce.Do(func() {
		shared = NewPool()
	})
	return shared
}

// Submit runs fn on a worker of p and returns its pending result.
func Submit[T any](p *Pool, ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	if fn == nil {
		f.complete(*new(T), ErrNilJob)
		return f
	}

	job := func() {
		start := time.Now()
		var (
			v        T
			err      error
			panicked bool
		)
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				err = fmt.Errorf("%w: %v", ErrPanic, r)
				p.logger.Error("job panicked", "panic", r, "stack", string(debug.Stack()))
			}
			p.finish(err, panicked, time.Since(start))
			f.complete(v, err)
		}()
		v, err = fn(ctx)
	}

	if err := p.dispatch(job); err != nil {
		f.complete(*new(T), err)
	}
	return f
}

// dispatch hands job to an idle worker or starts a new one.
func (p *Pool) dispatch(job func()) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	atomic.AddInt64(&p.submitted, 1)
	if p.metrics != nil {
		p.metrics.submitted.Inc()
	}

	select {
	case p.jobs <- job:
	default:
		p.wg.Add(1)
		n := atomic.AddInt64(&p.workers, 1)
		if p.metrics != nil {
			p.metrics.workers.Set(float64(n))
		}
		go p.worker(job)
	}
	return nil
}

// worker runs first and then serves handed-off jobs until it idles out.
func (p *Pool) worker(first func()) {
	defer func() {
		n := atomic.AddInt64(&p.workers, -1)
		if p.metrics != nil {
			p.metrics.workers.Set(float64(n))
		}
		p.wg.Done()
	}()

	first()

	timer := time.NewTimer(p.keepAlive)
	defer timer.Stop()
	for {
		atomic.AddInt64(&p.idle, 1)
		select {
		case job := <-p.jobs:
			atomic.AddInt64(&p.idle, -1)
			job()
			timer.Reset(p.keepAlive)
		case <-timer.C:
			atomic.AddInt64(&p.idle, -1)
			return
		case <-p.quit:
			atomic.AddInt64(&p.idle, -1)
			return
		}
	}
}

func (p *Pool) finish(err error, panicked bool, d time.Duration) {
	atomic.AddInt64(&p.completed, 1)
	status := "success"
	if err != nil {
		atomic.AddInt64(&p.failed, 1)
		status = "error"
	}
	if panicked {
		atomic.AddInt64(&p.panicked, 1)
		status = "panic"
	}
	if p.metrics != nil {
		p.metrics.completed.WithLabelValues(status).Inc()
		p.metrics.duration.Observe(d.Seconds())
	}
}

// Shutdown stops accepting jobs, releases idle workers and waits for running
// jobs until ctx is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.lifecycleMu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.quit)
	}
	p.lifecycleMu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current pool statistics
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:   atomic.LoadInt64(&p.workers),
		Idle:      atomic.LoadInt64(&p.idle),
		Submitted: atomic.LoadInt64(&p.submitted),
		Completed: atomic.LoadInt64(&p.completed),
		Failed:    atomic.LoadInt64(&p.failed),
		Panicked:  atomic.LoadInt64(&p.panicked),
	}
}

// PoolStats represents worker pool statistics
type PoolStats struct {
	Workers   int64 `json:"workers"`
	Idle      int64 `json:"idle"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Panicked  int64 `json:"panicked"`
}
