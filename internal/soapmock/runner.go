package soapmock

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/boundary"
	"github.com/getmockd/mockrunner/pkg/logging"
	"github.com/getmockd/mockrunner/pkg/soap"
	tlsutil "github.com/getmockd/mockrunner/pkg/tls"
)

// Name is the implementation name SimpleRunner is registered under.
const Name = "mockrunner.internal.soapmock.SimpleRunner"

// Default ports used when neither the task nor the project names one.
const (
	DefaultPort       = 8088
	DefaultSecurePort = api.DefaultSecurePort
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

func init() {
	api.MustRegister(Name, func() api.MockService { return NewSimpleRunner() })
}

// SimpleRunner serves one mock service of a SoapUI project.
type SimpleRunner struct {
	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
	logger   *slog.Logger
	running  atomic.Bool
}

// NewSimpleRunner returns an unstarted runner.
func NewSimpleRunner() *SimpleRunner {
	return &SimpleRunner{logger: logging.Nop()}
}

// Start loads the project, binds the listener and starts serving. The mock
// accepts connections once Start returns nil.
func (r *SimpleRunner) Start(ctx context.Context, task *api.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.server != nil {
		return ErrAlreadyRunning
	}

	if l, err := boundary.Symbol[*slog.Logger](ctx, api.SymbolLogger); err == nil && l != nil {
		r.logger = l
	}
	r.logger = logging.Component(r.logger, "soapmock")

	data, err := loadProject(ctx, task.ProjectLocation)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", task.ProjectLocation.Redacted(), err)
	}
	project, err := ParseProject(data)
	if err != nil {
		return err
	}
	svc, err := project.Service(task.ServiceName)
	if err != nil {
		return err
	}

	handler, err := soap.NewHandler(project.SOAPConfig(svc, task.Path()), soap.WithLogger(r.logger))
	if err != nil {
		return fmt.Errorf("mock service %q: %w", svc.Name, err)
	}
	mux := http.NewServeMux()
	mux.Handle(task.Path(), handler)

	addr := net.JoinHostPort(task.Host(), strconv.Itoa(servicePort(task, svc)))
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if task.IsSecure() {
		cfg, err := tlsConfig(ctx, task.Host())
		if err != nil {
			_ = ln.Close()
			return err
		}
		ln = tls.NewListener(ln, cfg)
	}

	r.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.listener = ln
	r.done = make(chan struct{})
	r.running.Store(true)

	go r.serve(r.server, ln, r.done)

	r.logger.Info("mock service started",
		"project", project.Name,
		"service", svc.Name,
		"address", ln.Addr().String(),
		"path", task.Path(),
		"secure", task.IsSecure(),
		"operations", len(handler.Config().Operations))
	return nil
}

func (r *SimpleRunner) serve(server *http.Server, ln net.Listener, done chan struct{}) {
	defer close(done)
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.logger.Error("mock service stopped unexpectedly", "error", err)
		r.running.Store(false)
	}
}

// servicePort picks the task port, then the project port, then the default
// for the scheme.
func servicePort(task *api.Task, svc *MockService) int {
	switch {
	case task.IsPortSet():
		return task.Port()
	case svc.Port > 0:
		return svc.Port
	case task.IsSecure():
		return DefaultSecurePort
	default:
		return DefaultPort
	}
}

// tlsConfig prefers the host's TLS configuration and falls back to a
// generated self-signed certificate.
func tlsConfig(ctx context.Context, host string) (*tls.Config, error) {
	if cfg, err := boundary.Symbol[*tls.Config](ctx, api.SymbolTLSConfig); err == nil && cfg != nil {
		return cfg, nil
	}
	cfg, err := tlsutil.ServerConfig("", "", host)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return cfg, nil
}

// Stop shuts the server down. Stopping a runner that is not running is a no-op.
func (r *SimpleRunner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := r.server.Shutdown(ctx)
	<-r.done

	r.logger.Info("mock service stopped", "address", r.listener.Addr().String())
	r.server, r.listener, r.done = nil, nil, nil
	r.running.Store(false)
	return err
}

// IsRunning reports whether the runner is serving.
func (r *SimpleRunner) IsRunning() bool {
	return r.running.Load()
}

// Addr returns the bound address, or nil when not running.
func (r *SimpleRunner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}
