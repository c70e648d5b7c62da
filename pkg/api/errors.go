package api

// Error is a simple error type for contract errors.
// It allows defining sentinel errors as constants.
type Error string

// Error implements the error interface.
func (e Error) Error() string { return string(e) }

// Sentinel errors.
const (
	// ErrNoProjectLocation is returned when a task is started without a project location.
	ErrNoProjectLocation = Error("a project location must be provided")

	// ErrNilFactory is returned when registering a nil factory.
	ErrNilFactory = Error("implementation factory cannot be nil")

	// ErrEmptyName is returned when registering an implementation without a name.
	ErrEmptyName = Error("implementation name cannot be empty")

	// ErrImplementationExists is returned when an implementation name is registered twice.
	ErrImplementationExists = Error("implementation with this name already exists")
)
