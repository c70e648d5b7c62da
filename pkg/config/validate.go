package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Implementation) == "" {
		errs = append(errs, errors.New("implementation must be set"))
	}
	if len(c.Artifacts) > 0 && len(c.Repositories) == 0 {
		errs = append(errs, errors.New("artifacts are configured but no repositories"))
	}
	if _, err := c.Coordinates(); err != nil {
		errs = append(errs, err)
	}
	for _, r := range c.Repositories {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.ProxySettings(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Filters.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Task.Port < -1 || c.Task.Port > 65535 {
		errs = append(errs, fmt.Errorf("task port %d out of range", c.Task.Port))
	}
	if (c.Task.CertFile == "") != (c.Task.KeyFile == "") {
		errs = append(errs, errors.New("task certFile and keyFile must be set together"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
