// Package scheduler implements a process-wide, priority-ordered task
// scheduler with bounded concurrency and cooperative cancellation, shared by
// the semantic index manager's background indexing and preparation work.
package scheduler

import (
	"container/heap"
	"context"
	"runtime"
	"sync"

	"go.indexbridge.dev/core/internal/core/domain"
)

// entry is one admitted-or-waiting task, tracked from Schedule until it
// reaches StateFinished.
type entry struct {
	desc              Description
	seq               int64
	notify            StateCallback
	handle            *Handle
	ctx               context.Context
	cancel            context.CancelFunc
	effectivePriority int
	index             int // position in the ready heap; -1 when not queued
	rescheduling      bool
}

// Scheduler admits at most Concurrency tasks at a time, selecting the
// highest-priority ready task first (FIFO within a priority band). A newer
// task that subsumes a currently running one (per Description.IsIdempotentWith)
// may preempt it, cancelling the running task with StateCancelledToBeRescheduled
// and requeueing it at a lower effective priority.
type Scheduler struct {
	mu          sync.Mutex
	concurrency int
	ready       priorityQueue
	running     map[*entry]struct{}
	nextSeq     int64
	closed      bool
}

// New creates a Scheduler admitting at most concurrency tasks simultaneously.
// concurrency <= 0 defaults to runtime.NumCPU().
func New(concurrency int) *Scheduler {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Scheduler{
		concurrency: concurrency,
		running:     make(map[*entry]struct{}),
	}
}

// Schedule enqueues desc with its declared priority, returning a Handle the
// caller can Wait on or Cancel. notify, if non-nil, is invoked with each
// lifecycle transition; it may be called from any goroutine.
func (s *Scheduler) Schedule(desc Description, notify StateCallback) (*Handle, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSchedulerClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{
		desc:              desc,
		seq:               s.nextSeq,
		notify:            notify,
		ctx:               ctx,
		cancel:            cancel,
		effectivePriority: desc.Priority(),
		index:             -1,
	}
	// The handle cancels whichever context the entry currently runs under,
	// since a rescheduled entry is given a fresh one.
	e.handle = newHandle(func() {
		s.mu.Lock()
		current := e.cancel
		s.mu.Unlock()
		current()
	})
	s.nextSeq++

	s.preemptForLocked(e)
	heap.Push(&s.ready, e)
	s.admitLocked()
	s.mu.Unlock()

	return e.handle, nil
}

// preemptForLocked looks for a running task that e subsumes and, if the
// scheduler is at capacity, cancels the lowest-priority such victim so e can
// be admitted sooner. Must be called with s.mu held.
func (s *Scheduler) preemptForLocked(e *entry) {
	if len(s.running) < s.concurrency {
		return
	}

	var victim *entry
	for r := range s.running {
		if r.rescheduling {
			continue
		}
		if r.effectivePriority >= e.effectivePriority {
			continue
		}
		if !e.desc.IsIdempotentWith(r.desc) {
			continue
		}
		if victim == nil || r.effectivePriority < victim.effectivePriority {
			victim = r
		}
	}
	if victim == nil {
		return
	}

	victim.rescheduling = true
	victim.cancel()
}

// admitLocked starts ready tasks until concurrency is exhausted or the ready
// queue is empty. Must be called with s.mu held.
func (s *Scheduler) admitLocked() {
	for len(s.ready) > 0 && len(s.running) < s.concurrency {
		e := heap.Pop(&s.ready).(*entry)
		s.running[e] = struct{}{}
		go s.run(e)
	}
}

func (s *Scheduler) run(e *entry) {
	if e.notify != nil {
		e.notify(StateExecuting)
	}

	err := e.desc.Execute(e.ctx)

	s.mu.Lock()
	delete(s.running, e)

	if e.rescheduling {
		e.rescheduling = false
		e.effectivePriority--
		e.ctx, e.cancel = context.WithCancel(context.Background())
		heap.Push(&s.ready, e)
		s.admitLocked()
		s.mu.Unlock()

		if e.notify != nil {
			e.notify(StateCancelledToBeRescheduled)
		}
		return
	}

	s.admitLocked()
	s.mu.Unlock()

	if e.notify != nil {
		e.notify(StateFinished)
	}
	e.handle.finish(err)
}

// Close prevents further scheduling. Tasks already running or ready continue
// to completion; Close does not cancel them.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// InProgress reports the number of tasks currently ready or running, for
// status introspection (in_progress_index_tasks).
func (s *Scheduler) InProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ready) + len(s.running)
}
