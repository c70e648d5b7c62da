// Package api defines the contract shared by the harness and the mock
// implementations that run inside an isolation boundary.
//
// Everything in this package is visible on both sides of the boundary: the
// default filter rules allow the "mockrunner.api." namespace through. It holds
// the task descriptor, the MockService capability interface and the registry
// that maps implementation names to factories.
//
// # Implementing a mock
//
//	type Runner struct{ running atomic.Bool }
//
//	func (r *Runner) Start(ctx context.Context, task *api.Task) error { ... }
//	func (r *Runner) Stop() error                                      { ... }
//	func (r *Runner) IsRunning() bool                                  { return r.running.Load() }
//
//	func init() {
//	    api.MustRegister("mockrunner.internal.example.Runner", func() api.MockService {
//	        return &Runner{}
//	    })
//	}
package api
