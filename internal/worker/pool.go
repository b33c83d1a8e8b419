package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

var (
	// ErrClosed is returned for tasks submitted after Close.
	ErrClosed = errors.New("worker pool is closed")

	// ErrPanic wraps the value of a panic raised by a task.
	ErrPanic = errors.New("task panicked")
)

// Task is a unit of work. It receives the context passed to Submit.
type Task func(ctx context.Context) (any, error)

// Pool executes tasks concurrently.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	tasks  *pool.Pool
	max    int
}

// New creates a Pool running at most maxConcurrency tasks at once. A value of
// zero or less means no limit.
func New(maxConcurrency int) *Pool {
	p := pool.New()
	if maxConcurrency > 0 {
		p = p.WithMaxGoroutines(maxConcurrency)
	} else {
		maxConcurrency = 0
	}
	return &Pool{tasks: p, max: maxConcurrency}
}

// MaxConcurrency returns the concurrency limit, 0 when unbounded.
func (p *Pool) MaxConcurrency() int {
	return p.max
}

// Submit schedules task and returns its Future. A context that is already
// done, or a closed pool, completes the Future immediately with an error and
// the task never runs.
//
// With a concurrency limit, Submit blocks while every worker is busy.
func (p *Pool) Submit(ctx context.Context, task Task) *Future {
	f := newFuture()

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		f.complete(nil, ErrClosed)
		return f
	}
	if err := ctx.Err(); err != nil {
		f.complete(nil, err)
		return f
	}

	p.tasks.Go(func() {
		f.complete(run(ctx, task))
	})
	return f
}

// Close stops accepting tasks and waits for the running ones to finish.
// It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.tasks.Wait()
}

func run(ctx context.Context, task Task) (result any, err error) {
	var pc panics.Catcher
	pc.Try(func() {
		result, err = task(ctx)
	})

	if r := pc.Recovered(); r != nil {
		log.Error().Interface("panic", r.Value).Bytes("stack", r.Stack).Msg("task panicked")
		return nil, fmt.Errorf("%w: %v", ErrPanic, r.Value)
	}
	return result, err
}
