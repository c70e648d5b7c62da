// Package executor runs one mock implementation inside an isolation boundary.
//
// An Executor is single-use. Start builds a fresh boundary, then on a worker
// loads the implementation factory by name through that boundary, creates an
// instance and starts it with a context carrying the boundary. The caller
// blocks until the instance's Start has returned; there is no timeout.
// Stop and IsRunning are forwarded to the started instance.
package executor
