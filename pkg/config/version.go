package config

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/magiconair/properties"
)

// VersionKey is the property holding the SoapUI version.
const VersionKey = "soapui.version"

// DefaultGroup and DefaultName identify the SoapUI runtime artifact.
const (
	DefaultGroup = "com.smartbear.soapui"
	DefaultName  = "soapui"
)

// ErrVersionMissing is returned when the bundled properties lack VersionKey.
var ErrVersionMissing = errors.New("dependency version missing from " + DependencyResource)

// DependencyResource is the name of the bundled dependency properties.
const DependencyResource = "mockrunner.dep.properties"

//go:embed mockrunner.dep.properties
var dependencyProperties []byte

// DefaultVersion returns the bundled SoapUI version.
func DefaultVersion() (string, error) {
	return versionFrom(dependencyProperties)
}

// MustDefaultVersion is like DefaultVersion but panics on error.
func MustDefaultVersion() string {
	v, err := DefaultVersion()
	if err != nil {
		panic(err)
	}
	return v
}

// DefaultArtifact returns the coordinate of the bundled SoapUI runtime.
func DefaultArtifact() string {
	return DefaultGroup + ":" + DefaultName + ":" + MustDefaultVersion()
}

func versionFrom(data []byte) (string, error) {
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", DependencyResource, err)
	}
	v, ok := p.Get(VersionKey)
	if !ok || v == "" {
		return "", ErrVersionMissing
	}
	return v, nil
}
