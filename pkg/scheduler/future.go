package scheduler

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Future is an awaitable result of a task submitted to an Executor.
type Future[T any] struct {
	id      string
	done    chan struct{}
	cancel  context.CancelFunc
	release func(T)

	mu        sync.Mutex
	val       T
	err       error
	settled   bool
	claimed   bool
	abandoned bool
}

// Spawn submits fn to ex and returns a future for its result.
func Spawn[T any](ctx context.Context, ex Executor, fn func(context.Context) (T, error)) *Future[T] {
	return SpawnReleasable(ctx, ex, fn, nil)
}

// SpawnReleasable is Spawn with a release hook. release is called with a successful
// result that nobody will claim because the future was abandoned.
func SpawnReleasable[T any](ctx context.Context, ex Executor, fn func(context.Context) (T, error), release func(T)) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	f := &Future[T]{
		id:      uuid.NewString(),
		done:    make(chan struct{}),
		cancel:  cancel,
		release: release,
	}

	job := func() {
		var (
			v   T
			err error
		)
		func() {
			defer func() {
				if p := recover(); p != nil {
					err = &PanicError{Value: p, Stack: debug.Stack()}
				}
			}()
			v, err = fn(taskCtx)
		}()
		f.settle(v, err)
	}

	if err := ex.Go(job); err != nil {
		var zero T
		f.settle(zero, err)
	}
	return f
}

// Rejected returns a future that has already failed with err.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{
		id:     uuid.NewString(),
		done:   make(chan struct{}),
		cancel: func() {},
	}
	var zero T
	f.settle(zero, err)
	return f
}

// settle records the outcome once. A successful result keeps its context alive
// because the value may still be reading from it (a response body, for instance).
func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	abandoned := f.abandoned
	if !abandoned {
		f.val, f.err = v, err
	}
	f.mu.Unlock()

	if err != nil {
		f.cancel()
	} else if abandoned && f.release != nil {
		f.release(v)
	}
	close(f.done)
}

// ID identifies the task for log correlation.
func (f *Future[T]) ID() string { return f.id }

// Done is closed once the task settles.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await waits for the task to settle or ctx to end, whichever comes first.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the settled outcome without waiting, or ErrPending.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	switch {
	case f.abandoned:
		return zero, ErrAbandoned
	case !f.settled:
		return zero, ErrPending
	}
	f.claimed = true
	return f.val, f.err
}

// Abandon gives up on the task. A pending task has its context cancelled; a result
// that settled but was never claimed is released. Abandon after a claim is a no-op.
func (f *Future[T]) Abandon() {
	f.mu.Lock()
	if f.claimed || f.abandoned {
		f.mu.Unlock()
		return
	}
	f.abandoned = true
	settled := f.settled
	v, err := f.val, f.err
	var zero T
	f.val = zero
	f.mu.Unlock()

	if !settled {
		f.cancel()
		return
	}
	if err == nil && f.release != nil {
		f.release(v)
	}
}
