package scheduler

import "sync"

const loopQueueSize = 16

// Loop is a single-worker scheduler meant to live for one call. Jobs run one at a
// time, in submission order, on the loop's own goroutine.
type Loop struct {
	jobs chan func()

	mu     sync.Mutex
	closed bool

	wg sync.WaitGroup
}

// NewLoop starts a loop. The caller must Close it.
func NewLoop() *Loop {
	l := &Loop{jobs: make(chan func(), loopQueueSize)}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for job := range l.jobs {
		runJob(job)
	}
}

// Go queues job. It returns ErrClosed once Close has been called.
func (l *Loop) Go(job func()) error {
	if job == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.jobs <- job
	return nil
}

// Close stops accepting jobs, drains the queue and waits for the worker to exit.
// It is safe to call more than once.
func (l *Loop) Close() error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.jobs)
	}
	l.mu.Unlock()
	l.wg.Wait()
	return nil
}
