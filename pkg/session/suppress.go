package session

import (
	"sync"
	"time"
)

// defaultSuppressWindow is how long live-data pushes stay suppressed after a
// local mutating action. A monotonic-clock gate, not a vector clock: a rare
// stale overwrite after the window closes is an accepted risk.
const defaultSuppressWindow = 3 * time.Second

// Clock supplies the current time. Injected so suppression tests do not
// sleep.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// suppressGate tracks the suppression deadline. Live-data callbacks arrive
// off the event loop, so the gate takes a lock of its own.
type suppressGate struct {
	mu     sync.Mutex
	until  time.Time
	window time.Duration
	clock  Clock
}

func newSuppressGate(window time.Duration, clock Clock) *suppressGate {
	return &suppressGate{window: window, clock: clock}
}

func (g *suppressGate) mark() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.until = g.clock.Now().Add(g.window)
}

func (g *suppressGate) open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.clock.Now().Before(g.until)
}
