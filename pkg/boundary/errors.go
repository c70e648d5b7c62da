package boundary

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no loader can supply a symbol.
	ErrNotFound = errors.New("symbol not found")

	// ErrDenied is returned when a block rule rejects a lookup. It matches ErrNotFound.
	ErrDenied = fmt.Errorf("%w: blocked by filter", ErrNotFound)

	// ErrCoreNotCovered is returned when filter rules would hide the core prefix.
	ErrCoreNotCovered = errors.New("filter rules do not let the core prefix " + CorePrefix + " through")

	// ErrNoContextBoundary is returned by Symbol when the context carries no loader.
	ErrNoContextBoundary = errors.New("no boundary in context")
)
