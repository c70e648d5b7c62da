package soapmock

import "errors"

var (
	// ErrInvalidProject is returned when the project document is not a SoapUI project.
	ErrInvalidProject = errors.New("invalid soapui project")
	// ErrServiceNotFound is returned when the requested mock service is not in the project.
	ErrServiceNotFound = errors.New("mock service not found")
	// ErrUnsupportedScheme is returned for project locations that cannot be read.
	ErrUnsupportedScheme = errors.New("unsupported project location scheme")
	// ErrResourceNotFound is returned when a classpath project is not visible through the boundary.
	ErrResourceNotFound = errors.New("project resource not found")
	// ErrAlreadyRunning is returned when Start is called on a running mock.
	ErrAlreadyRunning = errors.New("mock service already running")
)
