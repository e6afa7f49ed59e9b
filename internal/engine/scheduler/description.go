package scheduler

import "context"

// State is a lifecycle transition reported to a task's StateCallback.
type State int

const (
	// StateExecuting reports that the scheduler has started running the task.
	StateExecuting State = iota
	// StateCancelledToBeRescheduled reports that a running task was cancelled
	// to make room for a higher-priority task that subsumes it; the task has
	// been requeued at a lower effective priority and will run again.
	StateCancelledToBeRescheduled
	// StateFinished reports that the task ran to completion (successfully or
	// not) and will not be retried by the scheduler.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateExecuting:
		return "Executing"
	case StateCancelledToBeRescheduled:
		return "CancelledToBeRescheduled"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// StateCallback observes a task's lifecycle transitions. It must not block
// the scheduler for long; callers that need to do expensive work on a
// transition should hand it off to another goroutine.
type StateCallback func(State)

// Description is the capability set the scheduler needs from a task: how to
// run it, whether it does equivalent-or-overlapping work to some other task,
// and at what priority it should be considered.
type Description interface {
	// Execute runs the task to completion or until ctx is cancelled. A
	// cancelled ctx must be observed at natural suspension points; a
	// subprocess wait must forward cancellation as an interrupt and await
	// the child's exit rather than killing it outright.
	Execute(ctx context.Context) error

	// IsIdempotentWith reports whether running other instead of (or in
	// addition to) this task produces an equivalent or superseding result —
	// e.g. a target-wide index task is subsumed by a later, narrower,
	// higher-priority task scoped to one of its files. Only this relation,
	// not priority, determines whether a running task is a rescheduling
	// candidate when other is admitted.
	IsIdempotentWith(other Description) bool

	// Priority orders ready tasks; higher values run first. Equal
	// priorities are served FIFO.
	Priority() int
}
