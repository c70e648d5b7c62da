package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration wraps every error reported before any work starts.
	ErrConfiguration = errors.New("executor misconfigured")

	// ErrNoBoundaryFactory is returned when no boundary factory is set.
	ErrNoBoundaryFactory = fmt.Errorf("%w: a boundary factory is required", ErrConfiguration)

	// ErrNoImplementation is returned when no implementation name is set.
	ErrNoImplementation = fmt.Errorf("%w: an implementation name is required", ErrConfiguration)

	// ErrAlreadyStarted is returned by a second Start on the same executor.
	ErrAlreadyStarted = errors.New("executor already started")

	// ErrStartFailed wraps every failure to bring the implementation up.
	ErrStartFailed = errors.New("failed to start mock service")

	// ErrNotFactory is returned when the implementation symbol is not an api.Factory.
	ErrNotFactory = errors.New("implementation symbol is not a factory")
)
