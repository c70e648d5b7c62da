package worker

import "errors"

// Sentinel errors for worker pool operations
var (
	// ErrPoolStopped indicates the pool no longer accepts jobs
	ErrPoolStopped = errors.New("worker pool stopped")

	// ErrPanic indicates the job panicked
	ErrPanic = errors.New("job panicked")

	// ErrNilJob indicates a nil job function was submitted
	ErrNilJob = errors.New("job function cannot be nil")
)
