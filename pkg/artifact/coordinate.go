package artifact

import (
	"fmt"
	"strings"
)

// DefaultExtension is used when a coordinate does not name one.
const DefaultExtension = "jar"

// Coordinate identifies an artifact in a Maven repository.
type Coordinate struct {
	Group      string `json:"group" yaml:"group"`
	Name       string `json:"name" yaml:"name"`
	Extension  string `json:"extension,omitempty" yaml:"extension,omitempty"`
	Classifier string `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	Version    string `json:"version" yaml:"version"`
}

// ParseCoordinate parses group:name[:extension[:classifier]]:version.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
		}
	}

	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{Group: parts[0], Name: parts[1], Version: parts[2]}
	case 4:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: parts[2], Version: parts[3]}
	case 5:
		c = Coordinate{Group: parts[0], Name: parts[1], Extension: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinate{}, fmt.Errorf("%w: %q, expected group:name[:extension[:classifier]]:version", ErrInvalidCoordinate, s)
	}
	return c.normalize(), nil
}

// MustParseCoordinate is like ParseCoordinate but panics on error.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinate) normalize() Coordinate {
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	return c
}

// String renders the coordinate in group:name:extension[:classifier]:version form.
func (c Coordinate) String() string {
	c = c.normalize()
	if c.Classifier != "" {
		return c.Group + ":" + c.Name + ":" + c.Extension + ":" + c.Classifier + ":" + c.Version
	}
	return c.Group + ":" + c.Name + ":" + c.Extension + ":" + c.Version
}

// Key identifies the artifact independent of its version.
func (c Coordinate) Key() string {
	c = c.normalize()
	return c.Group + ":" + c.Name + ":" + c.Extension + ":" + c.Classifier
}

// Validate checks that group, name and version are present.
func (c Coordinate) Validate() error {
	if c.Group == "" || c.Name == "" || c.Version == "" {
		return fmt.Errorf("%w: %q", ErrInvalidCoordinate, c.String())
	}
	return nil
}

// Path returns the repository-relative path of the artifact file.
func (c Coordinate) Path() string {
	c = c.normalize()
	file := c.Name + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension
	return c.dir() + "/" + file
}

// POM returns the coordinate of the artifact's POM.
func (c Coordinate) POM() Coordinate {
	return Coordinate{Group: c.Group, Name: c.Name, Extension: "pom", Version: c.Version}
}

func (c Coordinate) dir() string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Name + "/" + c.Version
}

// hasFile reports whether the artifact contributes a file to a classpath.
func (c Coordinate) hasFile() bool {
	return c.normalize().Extension != "pom"
}

// typeCoordinate maps a dependency type to extension and classifier.
func typeCoordinate(typ, classifier string) (string, string) {
	switch typ {
	case "", "jar", "bundle", "maven-plugin", "ejb", "java-source", "javadoc":
		return DefaultExtension, classifier
	case "test-jar":
		if classifier == "" {
			classifier = "tests"
		}
		return DefaultExtension, classifier
	case "ejb-client":
		if classifier == "" {
			classifier = "client"
		}
		return DefaultExtension, classifier
	default:
		return typ, classifier
	}
}

// resolveVersion picks a concrete version from a Maven version or range.
// Ranges resolve to their inclusive lower bound, else their upper bound.
func resolveVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || (v[0] != '[' && v[0] != '(') {
		return v
	}

	// Only the first of several ranges is considered.
	end := strings.IndexAny(v, "])")
	if end < 0 {
		return v
	}
	open, closing := v[0], v[end]
	bounds := strings.Split(v[1:end], ",")

	if len(bounds) == 1 {
		return strings.TrimSpace(bounds[0])
	}

	lower := strings.TrimSpace(bounds[0])
	upper := strings.TrimSpace(bounds[1])
	switch {
	case lower != "" && open == '[':
		return lower
	case upper != "" && closing == ']':
		return upper
	case lower != "":
		return lower
	default:
		return upper
	}
}
