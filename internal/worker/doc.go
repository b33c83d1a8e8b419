// Package worker runs image operations off the caller's goroutine.
//
// Every operation is submitted to a Pool as a Task and produces exactly one
// result through its Future. The pool is backed by a sourcegraph/conc pool;
// when a concurrency limit is configured, Submit blocks until a worker is
// free, which pushes back on the caller instead of queueing without bound.
//
// A panic inside a task never escapes the pool. It is recovered and delivered
// as an error wrapping ErrPanic.
//
// # Usage
//
//	p := worker.New(4)
//	defer p.Close()
//
//	f := p.Submit(ctx, func(ctx context.Context) (any, error) {
//	    return svc.Properties(ctx, path)
//	})
//	result, err := f.Wait(ctx)
package worker
