package live

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int64

	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("burst of 10 triggers ran %d callbacks, want 1", got)
	}
}

func TestDebouncerLastCallbackWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var got atomic.Int64

	d.Trigger(func() { got.Store(1) })
	d.Trigger(func() { got.Store(2) })
	time.Sleep(100 * time.Millisecond)

	if got.Load() != 2 {
		t.Errorf("ran callback %d, want the most recent (2)", got.Load())
	}
}

func TestDebouncerSeparatedTriggersBothRun(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int64

	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("two separated triggers ran %d callbacks, want 2", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int64

	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("cancelled trigger still ran %d callbacks", got)
	}
}

func TestDebouncerZeroDurationUsesDefault(t *testing.T) {
	d := NewDebouncer(0)
	if d.duration != DefaultDebounce {
		t.Errorf("duration = %v, want %v", d.duration, DefaultDebounce)
	}
}
