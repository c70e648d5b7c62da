package testing

import (
	"log/slog"

	"github.com/getmockd/mockrunner/pkg/artifact"
	"github.com/getmockd/mockrunner/pkg/runner"
)

// Project sets the project location: a path or a file:, http(s): or
// classpath: URL.
func (m *MockService) Project(location string) *MockService {
	m.cfg.Task.Project = location
	return m
}

// Service selects the mock service within the project.
func (m *MockService) Service(name string) *MockService {
	m.cfg.Task.Service = name
	return m
}

// Host sets the host the mock binds to.
func (m *MockService) Host(host string) *MockService {
	m.cfg.Task.Host = host
	return m
}

// Port sets the port. Without it a free port is picked at Start.
func (m *MockService) Port(port int) *MockService {
	m.cfg.Task.Port = port
	return m
}

// Path sets the path the mock is served under.
func (m *MockService) Path(path string) *MockService {
	m.cfg.Task.Path = path
	return m
}

// Secure serves the mock over TLS with a generated certificate.
func (m *MockService) Secure() *MockService {
	m.cfg.Task.Secure = true
	return m
}

// Artifact adds a root artifact to the implementation classpath.
func (m *MockService) Artifact(coordinate string) *MockService {
	m.cfg.Artifacts = append(m.cfg.Artifacts, coordinate)
	return m
}

// Repository adds a remote repository.
func (m *MockService) Repository(id, url string) *MockService {
	m.cfg.Repositories = append(m.cfg.Repositories, artifact.NewRepository(id, url))
	return m
}

// LocalRepository sets the local repository directory.
func (m *MockService) LocalRepository(dir string) *MockService {
	m.cfg.LocalRepository = dir
	return m
}

// SharedLocation appends a path or glob to the classpath.
func (m *MockService) SharedLocation(location string) *MockService {
	m.cfg.SharedLocations = append(m.cfg.SharedLocations, location)
	return m
}

// Allow adds allowed prefixes to the filter.
func (m *MockService) Allow(prefixes ...string) *MockService {
	m.cfg.Filters.Allow = append(m.cfg.Filters.Allow, prefixes...)
	return m
}

// Block adds blocked prefixes to the filter.
func (m *MockService) Block(prefixes ...string) *MockService {
	m.cfg.Filters.Block = append(m.cfg.Filters.Block, prefixes...)
	return m
}

// Implementation sets the registered implementation to run.
func (m *MockService) Implementation(name string) *MockService {
	m.cfg.Implementation = name
	return m
}

// Logger sets the logger handed to the runner.
func (m *MockService) Logger(l *slog.Logger) *MockService {
	m.opts = append(m.opts, runner.WithLogger(l))
	return m
}

// With appends runner options.
func (m *MockService) With(opts ...runner.Option) *MockService {
	m.opts = append(m.opts, opts...)
	return m
}
