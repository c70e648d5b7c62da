package artifact

import "errors"

var (
	// ErrResolution wraps every error that aborts a resolution.
	ErrResolution = errors.New("dependency resolution failed")

	// ErrNoRepositories is returned when resolution is attempted without remote repositories.
	ErrNoRepositories = errors.New("no remote repositories configured")

	// ErrUnsupportedLayout is returned for repositories whose layout is not "default".
	ErrUnsupportedLayout = errors.New("unsupported repository layout")

	// ErrArtifactNotFound is returned when no repository can supply a required file.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidCoordinate is returned when a coordinate string cannot be parsed.
	ErrInvalidCoordinate = errors.New("invalid artifact coordinate")

	// ErrInvalidPOM is returned when a POM cannot be parsed.
	ErrInvalidPOM = errors.New("invalid POM")
)
