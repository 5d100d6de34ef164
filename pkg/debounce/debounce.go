// Package debounce coalesces bursts of writes into a single trailing
// call per key. The cart layer uses it so rapid quantity taps produce
// one database write instead of one per tap.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules one pending function per key. Scheduling a key
// that already has a pending call replaces it and restarts the delay,
// so only the last call within a burst runs.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]*entry
	stopped bool
}

type entry struct {
	timer *time.Timer
	fn    func()
}

func New() *Debouncer {
	return &Debouncer{pending: make(map[string]*entry)}
}

// Do schedules fn to run after delay, replacing any pending call for key.
func (d *Debouncer) Do(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}

	e := &entry{fn: fn}
	e.timer = time.AfterFunc(delay, func() {
		// A timer can expire while Do, Flush or Stop holds the lock and
		// supersedes this entry; only the current owner may run fn.
		d.mu.Lock()
		owned := d.pending[key] == e
		if owned {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		if owned {
			fn()
		}
	})
	d.pending[key] = e
}

// Cancel drops the pending call for key without running it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.pending[key]; ok {
		e.timer.Stop()
		delete(d.pending, key)
	}
}

// CancelPrefix drops every pending call whose key starts with prefix.
// Clearing a cart cancels all of its queued item writes this way.
func (d *Debouncer) CancelPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, e := range d.pending {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			e.timer.Stop()
			delete(d.pending, key)
		}
	}
}

// Flush runs every pending call immediately, synchronously, in no
// particular order. Called on shutdown so queued cart writes are not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, e := range d.pending {
		e.timer.Stop()
		fns = append(fns, e.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stop flushes pending calls and rejects any further scheduling.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.Flush()
}

// Len reports how many calls are pending.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
