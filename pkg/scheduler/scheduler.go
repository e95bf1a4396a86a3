// Package scheduler runs bridge tasks and hands back awaitable results.
package scheduler

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
)

var (
	// ErrClosed is returned when submitting to a torn-down executor.
	ErrClosed = errors.New("scheduler: executor closed")
	// ErrPending is returned by Future.Result before the task settles.
	ErrPending = errors.New("scheduler: task still pending")
	// ErrAbandoned is returned by a future after Abandon.
	ErrAbandoned = errors.New("scheduler: task abandoned")
)

// Executor is the submit capability the bridge is given. Go must not block on the job.
type Executor interface {
	Go(job func()) error
}

// PanicError reports a task that panicked instead of returning.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("scheduler: task panicked: %v", e.Value)
}

// runJob keeps a raw job's panic from taking the worker down with it.
func runJob(job func()) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(os.Stderr, "scheduler: job panicked: %v\n%s", p, debug.Stack())
		}
	}()
	job()
}
