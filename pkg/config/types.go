package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/mockrunner/pkg/api"
	"github.com/getmockd/mockrunner/pkg/artifact"
	"github.com/getmockd/mockrunner/pkg/boundary"
)

// DefaultImplementation is the bundled SOAP mock runner.
const DefaultImplementation = "mockrunner.internal.soapmock.SimpleRunner"

// Value sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Config is the runner configuration.
type Config struct {
	// Artifacts are the root coordinates of the implementation classpath.
	Artifacts []string `yaml:"artifacts"`
	// Repositories are searched in order.
	Repositories []artifact.Repository `yaml:"repositories"`
	// Proxy is a proxy URL applied to every repository.
	Proxy string `yaml:"proxy,omitempty"`
	// LocalRepository overrides local repository probing.
	LocalRepository string `yaml:"localRepository,omitempty"`
	// Filters decide which host symbols the implementation sees.
	Filters boundary.Rules `yaml:"filters"`
	// SharedLocations are appended to the classpath. Glob patterns are expanded.
	SharedLocations []string `yaml:"sharedLocations,omitempty"`
	// Implementation is the registered name of the mock implementation.
	Implementation string `yaml:"implementation"`

	Task TaskConfig `yaml:"task"`
	Log  LogConfig  `yaml:"log"`

	// Sources maps dotted keys to the source that set them.
	Sources map[string]string `yaml:"-"`
}

// TaskConfig describes the mock to start.
type TaskConfig struct {
	// Project is a path or a file:, http(s): or classpath: URL.
	Project string `yaml:"project"`
	Service string `yaml:"service,omitempty"`
	Host    string `yaml:"host,omitempty"`
	// Port is -1 when unset.
	Port   int    `yaml:"port"`
	Path   string `yaml:"path,omitempty"`
	Secure bool   `yaml:"secure,omitempty"`
	// CertFile and KeyFile are served on secure ports instead of a
	// generated certificate.
	CertFile string `yaml:"certFile,omitempty"`
	KeyFile  string `yaml:"keyFile,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Artifacts: []string{DefaultArtifact()},
		Repositories: []artifact.Repository{
			artifact.CentralRepository(),
			artifact.SoapUIRepository(),
		},
		Filters:        boundary.DefaultRules(),
		Implementation: DefaultImplementation,
		Task: TaskConfig{
			Host: api.DefaultHost,
			Port: api.PortUnset,
			Path: "/",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Sources: make(map[string]string),
	}
	for _, key := range []string{
		"artifacts", "repositories", "filters", "implementation",
		"task.host", "task.port", "task.path", "log.level", "log.format",
	} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// Source returns where key was set, or SourceDefault.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// SetSource records that key was set by source.
func (c *Config) SetSource(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// Coordinates parses the configured artifacts.
func (c *Config) Coordinates() ([]artifact.Coordinate, error) {
	out := make([]artifact.Coordinate, 0, len(c.Artifacts))
	for _, s := range c.Artifacts {
		coord, err := artifact.ParseCoordinate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, coord)
	}
	return out, nil
}

// ProxySettings parses the configured proxy. A blank proxy yields nil.
func (c *Config) ProxySettings() (*artifact.Proxy, error) {
	if strings.TrimSpace(c.Proxy) == "" {
		return nil, nil
	}
	return artifact.ParseProxy(c.Proxy)
}

// NewTask builds the task descriptor. The project must be set.
func (c *Config) NewTask() (*api.Task, error) {
	task := api.NewTask().
		WithServiceName(c.Task.Service).
		WithHost(c.Task.Host).
		WithPort(c.Task.Port).
		WithPath(c.Task.Path).
		SetSecure(c.Task.Secure)

	loc, err := ProjectLocation(c.Task.Project)
	if err != nil {
		return nil, err
	}
	return task.WithProjectLocation(loc), nil
}

// ProjectLocation turns a path or URL into a project location.
// Strings without a known scheme are treated as file paths.
func ProjectLocation(project string) (*url.URL, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, api.ErrNoProjectLocation
	}

	if scheme, _, ok := strings.Cut(project, ":"); ok {
		switch strings.ToLower(scheme) {
		case "file", "http", "https", "classpath":
			u, err := url.Parse(project)
			if err != nil {
				return nil, fmt.Errorf("invalid project location %q: %w", project, err)
			}
			return u, nil
		}
	}

	task, err := api.NewTask().WithProjectFile(project)
	if err != nil {
		return nil, err
	}
	return task.ProjectLocation, nil
}
