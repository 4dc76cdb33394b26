// Package taskmon supervises long-running background tasks (bring-up
// servers, device workers) the way task_monitor.rs's TaskMonitor does:
// abort all siblings on the first unexpected exit, and detect hangs when
// asked to shut down.
package taskmon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Monitor tracks a set of goroutines launched together, aborting every
// other task as soon as any one of them exits — whether by returning an
// error, returning nil (an unexpected early finish for a task meant to run
// forever), or panicking.
type Monitor struct {
	mu      sync.Mutex
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
	count   int
	waited  bool
	waitErr error
}

// New builds a Monitor whose tasks are cancelled via ctx (or via the
// Monitor itself) as soon as one of them exits.
func New(ctx context.Context) *Monitor {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	return &Monitor{group: g, ctx: gctx, cancel: cancel}
}

// Go launches fn as a monitored, long-running task. fn is expected to run
// until ctx is cancelled; any other exit (error, unexpected nil return, or
// panic) is treated as a supervisor-visible failure and cancels every
// sibling task.
func (m *Monitor) Go(fn func(ctx context.Context) error) {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()

	m.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("taskmon: task panicked: %v", r)
			}
		}()
		if err := fn(m.ctx); err != nil {
			return err
		}
		if m.ctx.Err() == nil {
			return fmt.Errorf("taskmon: task exited unexpectedly")
		}
		return nil
	})
}

// Wait blocks until every monitored task has exited (by error, panic, or
// the supervising context being cancelled), releases the supervising
// context, and returns the first error any task returned, or nil if there
// was none or that first error is context.Canceled.
func (m *Monitor) Wait() error {
	err := m.group.Wait()
	m.cancel()
	m.mu.Lock()
	m.waited = true
	m.waitErr = err
	m.mu.Unlock()
	if err == context.Canceled {
		return nil
	}
	return err
}

// Abort cancels every monitored task without waiting for them to exit.
func (m *Monitor) Abort() { m.cancel() }

// CheckFinished aborts all tasks and waits up to timeout for them to exit;
// a task still running past the deadline is reported as hung, matching
// check_tasks_finished's hang detection.
func (m *Monitor) CheckFinished(timeout time.Duration) error {
	m.Abort()

	done := make(chan error, 1)
	go func() { done <- m.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("taskmon: %d tasks hung even when aborted", m.count)
	}
}
