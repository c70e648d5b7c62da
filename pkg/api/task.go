package api

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultHost is used when no host was set.
	DefaultHost = "localhost"

	// DefaultSecurePort is emitted in the endpoint of a secure task without an explicit port.
	DefaultSecurePort = 8443

	// PortUnset is reported by Task.Port when no port was set.
	PortUnset = -1
)

// Task describes which mock to start and where to expose it.
//
// The zero value is usable: host defaults to localhost, the port is unset and
// the path is "/". Builder methods return the task for chaining.
type Task struct {
	// ProjectLocation points at the mock project. Supported schemes depend on
	// the implementation; file, http(s) and classpath are understood by the
	// bundled SOAP runner.
	ProjectLocation *url.URL

	// ServiceName selects a mock service within the project.
	ServiceName string

	host    string
	port    int
	portSet bool
	path    string
	secure  bool
}

// NewTask returns an empty task.
func NewTask() *Task {
	return &Task{}
}

// WithProjectLocation sets the project location.
func (t *Task) WithProjectLocation(u *url.URL) *Task {
	t.ProjectLocation = u
	return t
}

// WithProjectFile sets the project location to a local file.
func (t *Task) WithProjectFile(path string) (*Task, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return t, fmt.Errorf("cannot resolve project file %s: %w", path, err)
	}
	t.ProjectLocation = &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return t, nil
}

// WithServiceName sets the mock service name.
func (t *Task) WithServiceName(name string) *Task {
	t.ServiceName = name
	return t
}

// WithHost sets the host. An empty host resets to the default.
func (t *Task) WithHost(host string) *Task {
	t.host = host
	return t
}

// WithPort sets the port. A negative port clears it.
func (t *Task) WithPort(port int) *Task {
	if port < 0 {
		t.port, t.portSet = 0, false
		return t
	}
	t.port, t.portSet = port, true
	return t
}

// WithPath sets the path the mock is served under.
func (t *Task) WithPath(path string) *Task {
	t.path = path
	return t
}

// SecurePort marks the mock as served over TLS.
func (t *Task) SecurePort() *Task {
	t.secure = true
	return t
}

// SetSecure sets whether the mock is served over TLS.
func (t *Task) SetSecure(secure bool) *Task {
	t.secure = secure
	return t
}

// Host returns the host, defaulting to localhost.
func (t *Task) Host() string {
	if t.host == "" {
		return DefaultHost
	}
	return t.host
}

// Port returns the explicit port or PortUnset.
func (t *Task) Port() int {
	if !t.portSet {
		return PortUnset
	}
	return t.port
}

// IsPortSet reports whether a port was explicitly supplied.
func (t *Task) IsPortSet() bool {
	return t.portSet
}

// IsSecure reports whether the mock is served over TLS.
func (t *Task) IsSecure() bool {
	return t.secure
}

// Path returns the path, always starting with "/".
func (t *Task) Path() string {
	switch {
	case t.path == "":
		return "/"
	case strings.HasPrefix(t.path, "/"):
		return t.path
	default:
		return "/" + t.path
	}
}

// QualifiedHost returns scheme://host[:port].
func (t *Task) QualifiedHost() string {
	var sb strings.Builder

	sb.WriteString("http")
	if t.secure {
		sb.WriteByte('s')
	}
	sb.WriteString("://")
	sb.WriteString(t.Host())

	switch {
	case t.portSet:
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(t.port))
	case t.secure:
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(DefaultSecurePort))
	}

	return sb.String()
}

// Endpoint returns the externally reachable URL of the mock.
func (t *Task) Endpoint() string {
	return t.QualifiedHost() + t.Path()
}

// Validate checks that the task can be started.
func (t *Task) Validate() error {
	if t == nil || t.ProjectLocation == nil {
		return ErrNoProjectLocation
	}
	return nil
}
