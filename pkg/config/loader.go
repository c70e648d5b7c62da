package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
	ErrEmptyFile    = errors.New("configuration file is empty")
	ErrInvalid      = errors.New("invalid configuration")
)

// Load returns the defaults overlaid with the YAML file at path. An empty
// path loads the defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return c.apply(data, path)
}

func (c *Config) apply(data []byte, path string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w in %s: %w", ErrInvalidYAML, path, err)
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if err := doc.Decode(c); err != nil {
		return fmt.Errorf("%w in %s: %w", ErrInvalidYAML, path, err)
	}
	for _, key := range keys(doc.Content[0], "") {
		c.SetSource(key, SourceFile)
	}
	return nil
}

// keys lists the dotted keys set in a mapping node, one level deep for
// nested mappings.
func keys(node *yaml.Node, prefix string) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	var out []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := prefix + node.Content[i].Value
		value := node.Content[i+1]
		if prefix == "" && value.Kind == yaml.MappingNode && (key == "task" || key == "log") {
			out = append(out, keys(value, key+".")...)
			continue
		}
		out = append(out, key)
	}
	return out
}
