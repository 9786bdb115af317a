// Package debounce provides a delayed-task scheduler that coalesces bursts
// of triggers into a single deferred run.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs a fixed function after a fixed delay. Each Schedule call
// cancels any outstanding run and starts the delay over, so N triggers
// within the delay window collapse into exactly one run. Timers are always
// replaced, never stacked.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex // guards timer and pending
	timer   *time.Timer
	pending bool

	execMu sync.Mutex // held while fn runs; serializes runs with Flush
}

// New returns a debouncer that runs fn after delay once triggered.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Schedule cancels any outstanding run and schedules a new one after the
// configured delay. Cancel and reschedule happen atomically with respect to
// other Schedule, Stop and Flush calls.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.delay, d.run)
}

// Stop cancels any outstanding run without executing it. It reports whether
// a run was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	was := d.pending
	d.pending = false
	return was
}

// Flush cancels any outstanding run and, if one was pending, executes it
// immediately on the calling goroutine. Flush waits for an in-flight timer
// run to finish first, so when it returns no run is pending or executing.
func (d *Debouncer) Flush() {
	was := d.Stop()
	d.execMu.Lock()
	defer d.execMu.Unlock()
	if was {
		d.fn()
	}
}

// run is invoked by the timer goroutine.
func (d *Debouncer) run() {
	d.mu.Lock()
	if !d.pending {
		// Canceled or already consumed between firing and locking.
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.execMu.Lock()
	defer d.execMu.Unlock()
	d.fn()
}
