// Package logging builds the slog loggers shared by the resolver, the
// isolation boundary, the executor and the mock implementations.
//
// The host logger is published to implementations as the std.slog.Logger
// symbol, so a mock loaded behind a boundary writes to the same handler as
// the runner. Records carry a "component" attribute and, once a boundary
// exists, a "boundary" attribute with its ID:
//
//	logger := logging.New(logging.Config{Level: logging.ParseLevel("debug")})
//	logging.Boundary(logging.Component(logger, "executor"), b.ID()).Info("started")
package logging
