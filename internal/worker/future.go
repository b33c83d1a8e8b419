package worker

import (
	"context"
	"sync"
)

// Future is the pending result of a submitted Task. It completes exactly
// once.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result any
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete records the outcome. Only the first call has an effect.
func (f *Future) complete(result any, err error) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the task has finished and returns its outcome.
func (f *Future) Result() (any, error) {
	<-f.done
	return f.result, f.err
}

// Wait is like Result but gives up when ctx is done. Giving up does not stop
// the task; its result is still recorded and can be read later.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
