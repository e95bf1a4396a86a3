package scheduler

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs each job on its own goroutine, optionally bounded by a weighted semaphore.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool creates a pool. maxInFlight <= 0 means unbounded.
func NewPool(maxInFlight int64) *Pool {
	p := &Pool{}
	if maxInFlight > 0 {
		p.sem = semaphore.NewWeighted(maxInFlight)
	}
	return p
}

// Go starts job without waiting for a free slot.
func (p *Pool) Go(job func()) error {
	if job == nil {
		return nil
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if p.sem != nil {
			// Background never cancels, so Acquire only returns once a slot is free.
			_ = p.sem.Acquire(context.Background(), 1)
			defer p.sem.Release(1)
		}
		runJob(job)
	}()
	return nil
}

// Wait blocks until every job started so far has finished.
func (p *Pool) Wait() { p.wg.Wait() }

var (
	sharedMu    sync.Mutex
	sharedPool  *Pool
	sharedLimit int64
)

// ConfigureShared sets the in-flight bound for the process-wide pool. It only has an
// effect before the first Shared call and reports whether it was applied.
func ConfigureShared(maxInFlight int64) bool {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedPool != nil {
		return false
	}
	sharedLimit = maxInFlight
	return true
}

// Shared returns the process-wide pool, creating it on first use. It is never torn down.
func Shared() *Pool {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedPool == nil {
		sharedPool = NewPool(sharedLimit)
	}
	return sharedPool
}
