package testing

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/config"
	"github.com/getmockd/mockrunner/pkg/runner"
)

// MockService is a test helper that runs a mock service for one test.
type MockService struct {
	t        testing.TB
	cfg      *config.Config
	opts     []runner.Option
	runner   *runner.Runner
	endpoint string
	client   *http.Client
}

// New creates a helper with no artifacts and the default filter rules.
// The mock is stopped automatically when the test completes.
func New(t testing.TB) *MockService {
	t.Helper()
	cfg := config.Default()
	cfg.Artifacts = nil
	cfg.Repositories = nil
	cfg.Task.Host = "127.0.0.1"
	return &MockService{t: t, cfg: cfg}
}

// Config returns the configuration Start will use.
func (m *MockService) Config() *config.Config {
	return m.cfg
}

// Start starts the mock and returns its endpoint. It fails the test on error.
func (m *MockService) Start() string {
	m.t.Helper()
	endpoint, err := m.StartE()
	if err != nil {
		m.t.Fatalf("failed to start mock service: %v", err)
	}
	return endpoint
}

// StartE is like Start but returns the error.
func (m *MockService) StartE() (string, error) {
	m.t.Helper()
	if m.runner != nil && m.runner.IsRunning() {
		return m.endpoint, nil
	}

	if m.cfg.Task.Port == api.PortUnset {
		port, err := freePort(m.cfg.Task.Host)
		if err != nil {
			return "", err
		}
		m.cfg.Task.Port = port
	}
	if m.cfg.LocalRepository == "" {
		m.cfg.LocalRepository = m.t.TempDir()
	}

	r, err := runner.New(m.cfg, m.opts...)
	if err != nil {
		return "", err
	}
	if err := r.Start(context.Background()); err != nil {
		return "", err
	}
	m.runner = r
	m.t.Cleanup(m.Stop)

	m.endpoint, err = r.Endpoint()
	if err != nil {
		return "", err
	}
	return m.endpoint, nil
}

func freePort(host string) (int, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}
	defer func() { _ = ln.Close() }()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Stop stops the mock. Calling it more than once is safe.
func (m *MockService) Stop() {
	m.t.Helper()
	if m.runner == nil {
		return
	}
	if err := m.runner.Stop(); err != nil {
		m.t.Errorf("failed to stop mock service: %v", err)
	}
}

// URL returns the endpoint, or an empty string before Start.
func (m *MockService) URL() string {
	return m.endpoint
}

// IsRunning reports whether the mock is serving.
func (m *MockService) IsRunning() bool {
	return m.runner != nil && m.runner.IsRunning()
}

// Runner returns the underlying runner, or nil before Start.
func (m *MockService) Runner() *runner.Runner {
	return m.runner
}

// Call posts a SOAP 1.1 request to the endpoint.
func (m *MockService) Call(soapAction, envelope string) *Response {
	m.t.Helper()
	req, err := http.NewRequest(http.MethodPost, m.endpoint, strings.NewReader(envelope))
	if err != nil {
		m.t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	if soapAction != "" {
		req.Header.Set("SOAPAction", `"`+soapAction+`"`)
	}
	return m.do(req)
}

// Call12 posts a SOAP 1.2 request to the endpoint.
func (m *MockService) Call12(action, envelope string) *Response {
	m.t.Helper()
	req, err := http.NewRequest(http.MethodPost, m.endpoint, strings.NewReader(envelope))
	if err != nil {
		m.t.Fatalf("failed to build request: %v", err)
	}
	contentType := "application/soap+xml; charset=utf-8"
	if action != "" {
		contentType += `; action="` + action + `"`
	}
	req.Header.Set("Content-Type", contentType)
	return m.do(req)
}

func (m *MockService) do(req *http.Request) *Response {
	m.t.Helper()
	if m.client == nil {
		m.client = &http.Client{Transport: &http.Transport{
			// generated certificates are not trusted
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}}
	}
	resp, err := m.client.Do(req)
	if err != nil {
		m.t.Fatalf("request to %s failed: %v", req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		m.t.Fatalf("failed to read response: %v", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(body),
	}
}
