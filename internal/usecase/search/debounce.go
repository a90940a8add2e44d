package search

import (
	"sync"
	"time"
)

// DefaultQuiescence is how long input must stay unchanged before a query is committed.
const DefaultQuiescence = 300 * time.Millisecond

// Debouncer delays a run until submissions stop for the quiescence window.
// Every Submit cancels the pending run and takes a new sequence number, so a
// consumer can also discard results of runs that were already in flight.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer. A non-positive wait uses DefaultQuiescence.
func NewDebouncer(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultQuiescence
	}
	return &Debouncer{wait: wait}
}

// Submit schedules fn to run with its sequence number once the window elapses
// without another Submit. It returns that sequence number.
func (d *Debouncer) Submit(fn func(seq uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.wait, func() {
		if !d.IsCurrent(seq) {
			return
		}
		fn(seq)
	})
	return seq
}

// Current returns the sequence number of the latest submission.
func (d *Debouncer) Current() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// IsCurrent reports whether seq belongs to the latest submission.
func (d *Debouncer) IsCurrent(seq uint64) bool {
	return d.Current() == seq
}

// Stop cancels the pending run, if any, and invalidates every issued sequence number.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
