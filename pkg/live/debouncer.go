package live

import (
	"sync"
	"time"
)

// DefaultDebounce is the default coalescing window for feed events.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// Only the last callback scheduled within the window runs.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a Debouncer. A zero duration uses DefaultDebounce.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounce
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback after the debounce window, cancelling any
// previously scheduled one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// Only the most recently scheduled callback may run; Stop can
		// return false when the timer already fired and the stale callback
		// is racing us.
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		callback()
	})
}

// Cancel drops any pending callback, including one already racing the timer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
