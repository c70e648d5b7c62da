package config

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvConfig         = "MOCKRUNNER_CONFIG"
	EnvLogLevel       = "MOCKRUNNER_LOG_LEVEL"
	EnvLogFormat      = "MOCKRUNNER_LOG_FORMAT"
	EnvProxy          = "MOCKRUNNER_PROXY"
	EnvImplementation = "MOCKRUNNER_IMPLEMENTATION"
	EnvLocalRepo      = "MOCKRUNNER_LOCAL_REPO"
	EnvPort           = "MOCKRUNNER_PORT"
)

// ConfigFileFromEnv returns the config file named by MOCKRUNNER_CONFIG.
func ConfigFileFromEnv() string {
	return os.Getenv(EnvConfig)
}

// ApplyEnv overlays values present in the environment.
func (c *Config) ApplyEnv() {
	// MOCKRUNNER_LOG_LEVEL
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
		c.SetSource("log.level", SourceEnv)
	}

	// MOCKRUNNER_LOG_FORMAT
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
		c.SetSource("log.format", SourceEnv)
	}

	// MOCKRUNNER_PROXY
	if v := os.Getenv(EnvProxy); v != "" {
		c.Proxy = v
		c.SetSource("proxy", SourceEnv)
	}

	// MOCKRUNNER_IMPLEMENTATION
	if v := os.Getenv(EnvImplementation); v != "" {
		c.Implementation = v
		c.SetSource("implementation", SourceEnv)
	}

	// MOCKRUNNER_LOCAL_REPO
	if v := os.Getenv(EnvLocalRepo); v != "" {
		c.LocalRepository = v
		c.SetSource("localRepository", SourceEnv)
	}

	// MOCKRUNNER_PORT
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Task.Port = port
			c.SetSource("task.port", SourceEnv)
		}
	}
}

// LoadAll loads the defaults, the file named by path or MOCKRUNNER_CONFIG,
// and the environment.
// Precedence: env > file > defaults. Flags are applied by the caller.
func LoadAll(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileFromEnv()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}
