package indexmanager

import "sync"

// groupHandle is the domain.TaskHandle installed into indexStatus for every
// file in a batch at scheduling time, before the batch's preparation or
// update work has actually been scheduled on the task scheduler. It is a
// stable façade: Cancel and Wait forward to whichever underlying scheduler
// handle is currently active, so the object identity in indexStatus never
// needs to change as the batch moves from preparation to per-file updates.
type groupHandle struct {
	mu     sync.Mutex
	active interface {
		Cancel()
	}
	done chan struct{}
	err  error
}

func newGroupHandle() *groupHandle {
	return &groupHandle{done: make(chan struct{})}
}

// setActive installs the handle currently doing work on this group's
// behalf, so Cancel reaches it.
func (g *groupHandle) setActive(h interface{ Cancel() }) {
	g.mu.Lock()
	g.active = h
	g.mu.Unlock()
}

func (g *groupHandle) Cancel() {
	g.mu.Lock()
	active := g.active
	g.mu.Unlock()
	if active != nil {
		active.Cancel()
	}
}

func (g *groupHandle) Wait() error {
	<-g.done
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *groupHandle) finish(err error) {
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
	close(g.done)
}
