// Package debounce coalesces rapid, repeated calls into a single delayed
// emission using a caller-supplied combinator.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces calls to Schedule that arrive within window D into one
// emit call, combining the pending parameter with each new one via combine.
// combine is invoked as combine(older, newer); it must be associative for
// left-fold correctness across 3+ coalesced calls, per the generalized
// debounce contract.
type Debouncer[P any] struct {
	mu      sync.Mutex
	window  time.Duration
	combine func(older, newer P) P
	emit    func(p P)

	pending bool
	value   P
	timer   *time.Timer
}

// New creates a Debouncer with window D, combinator combine, and emit
// callback. emit may suspend; a Schedule arriving while emit is still
// running for a prior window does not interrupt it — the next window begins
// independently.
func New[P any](window time.Duration, combine func(older, newer P) P, emit func(p P)) *Debouncer[P] {
	return &Debouncer[P]{
		window:  window,
		combine: combine,
		emit:    emit,
	}
}

// Schedule enqueues p, starting a new window or combining with the pending
// value and restarting the window timer.
func (d *Debouncer[P]) Schedule(p P) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pending {
		d.pending = true
		d.value = p
	} else {
		if d.timer != nil {
			d.timer.Stop()
		}
		d.value = d.combine(d.value, p)
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs when the debounce window expires without being reset.
func (d *Debouncer[P]) fire() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	p := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	if d.emit != nil {
		d.emit(p)
	}
}

// Flush immediately emits the pending value, if any, bypassing the
// remaining window. It blocks until emit returns, making it suitable for use
// during shutdown when pending work must complete before proceeding.
func (d *Debouncer[P]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired and is racing to acquire d.mu; let it
			// complete rather than emitting twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	p := d.value
	d.pending = false
	d.mu.Unlock()

	if d.emit != nil {
		d.emit(p)
	}
}
