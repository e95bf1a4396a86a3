// Package host models the embedding runtime the bridge is called from.
package host

import (
	"context"
	"sync"
	"sync/atomic"
)

// Waitable is anything that signals completion by closing a channel.
type Waitable interface {
	Done() <-chan struct{}
}

// Host is the capability surface the bridge needs from its embedder.
type Host interface {
	// AllowThreads runs fn with the host's execution lock released, re-acquiring it
	// before returning. A caller that does not hold the lock just runs fn.
	AllowThreads(fn func())
	// BlockOn drives w to completion synchronously. It returns ctx.Err() if ctx ends first.
	BlockOn(ctx context.Context, w Waitable) error
}

// Free is a host without a global execution lock.
type Free struct{}

func (Free) AllowThreads(fn func()) { fn() }

func (Free) BlockOn(ctx context.Context, w Waitable) error {
	return wait(ctx, w)
}

// GIL is a host with a single global execution lock. Callers hold the lock while
// they run host code and the bridge releases it around every wait. Releasing a lock
// nobody holds is a no-op, as is AllowThreads outside the lock.
type GIL struct {
	mu   sync.Mutex
	held atomic.Bool
}

// NewGIL returns an unlocked GIL.
func NewGIL() *GIL { return &GIL{} }

// Acquire takes the execution lock.
func (g *GIL) Acquire() {
	g.mu.Lock()
	g.held.Store(true)
}

// Release gives the execution lock back.
func (g *GIL) Release() {
	if g.held.CompareAndSwap(true, false) {
		g.mu.Unlock()
	}
}

// TryAcquire reports whether the lock was free and is now held.
func (g *GIL) TryAcquire() bool {
	if !g.mu.TryLock() {
		return false
	}
	g.held.Store(true)
	return true
}

// With runs fn while holding the lock.
func (g *GIL) With(fn func()) {
	g.Acquire()
	defer g.Release()
	fn()
}

// AllowThreads drops the lock around fn when it is held and re-takes it after.
func (g *GIL) AllowThreads(fn func()) {
	if !g.held.CompareAndSwap(true, false) {
		fn()
		return
	}
	g.mu.Unlock()
	defer g.Acquire()
	fn()
}

func (g *GIL) BlockOn(ctx context.Context, w Waitable) error {
	var err error
	g.AllowThreads(func() { err = wait(ctx, w) })
	return err
}

func wait(ctx context.Context, w Waitable) error {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-w.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
