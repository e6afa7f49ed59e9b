package indexmanager

import (
	"sync"

	"go.indexbridge.dev/core/internal/core/domain"
)

// aggregateHandle joins the per-batch groupHandles produced by a single
// schedule call into one domain.TaskHandle, so callers of
// ScheduleBackgroundIndex and WaitForUpToDateIndex get back one handle
// regardless of how many target batches the request fanned out to.
type aggregateHandle struct {
	handles []domain.TaskHandle
}

func (a *aggregateHandle) Cancel() {
	for _, h := range a.handles {
		h.Cancel()
	}
}

func (a *aggregateHandle) Wait() error {
	var first error
	var once sync.Once
	for _, h := range a.handles {
		if err := h.Wait(); err != nil {
			once.Do(func() { first = err })
		}
	}
	return first
}

// Done returns a channel closed once every batch has finished.
func (a *aggregateHandle) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_ = a.Wait()
		close(done)
	}()
	return done
}
