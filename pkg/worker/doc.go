// Package worker provides a cached, unbounded pool of goroutines for running
// blocking jobs and collecting their results.
//
// # Overview
//
// A Pool keeps no queue. Submit hands a job to an idle worker when one is
// waiting and otherwise starts a new worker, so a job never waits for
// capacity. Workers that stay idle for the keep-alive period exit.
//
//	pool := worker.NewPool(worker.WithKeepAlive(30 * time.Second))
//	defer pool.Shutdown(ctx)
//
//	f := worker.Submit(pool, ctx, func(ctx context.Context) (*Server, error) {
//	    return startServer(ctx)
//	})
//	srv, err := f.Wait()
//
// # Results
//
// Submit returns a Future. Wait blocks until the job returns; there is no
// timeout. A job that panics completes with an error wrapping ErrPanic.
//
// # Observability
//
// Statistics are always tracked with atomic counters and are available from
// Stats. Prometheus metrics are optional and enabled with WithMetrics.
//
// # Shared pool
//
// Shared returns a process-wide pool that is created on first use and never
// shut down. Components that want control over worker lifetime create and
// pass their own Pool instead.
package worker
