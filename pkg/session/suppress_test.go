package session

import (
	"testing"
	"time"

	"dashgrid/pkg/model"
)

// fakeClock hands out a settable instant.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestSuppressionWindow(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(&fakeStore{}, fakeDefs{}, model.Board{Linkage: model.LinkageLinked},
		WithClock(clk))

	if !s.ShouldApplyLiveData() {
		t.Fatal("gate should start open")
	}

	s.MarkLocalAction()
	if s.ShouldApplyLiveData() {
		t.Error("push immediately after a local action must be dropped")
	}

	clk.advance(1 * time.Second)
	if s.ShouldApplyLiveData() {
		t.Error("push 1s after a local action must still be dropped")
	}

	clk.advance(3 * time.Second)
	if !s.ShouldApplyLiveData() {
		t.Error("push 4s after a local action must be applied")
	}
}

func TestSuppressionWindowRemark(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(&fakeStore{}, fakeDefs{}, model.Board{Linkage: model.LinkageLinked},
		WithClock(clk), WithSuppressWindow(2*time.Second))

	s.MarkLocalAction()
	clk.advance(1500 * time.Millisecond)
	s.MarkLocalAction() // window restarts from the latest action
	clk.advance(1500 * time.Millisecond)
	if s.ShouldApplyLiveData() {
		t.Error("restarted window should still be suppressing")
	}
	clk.advance(time.Second)
	if !s.ShouldApplyLiveData() {
		t.Error("window should be open 2s after the last action")
	}
}

func TestSuppressionWindowBoundary(t *testing.T) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(&fakeStore{}, fakeDefs{}, model.Board{Linkage: model.LinkageLinked},
		WithClock(clk))

	s.MarkLocalAction()
	clk.advance(defaultSuppressWindow)
	if !s.ShouldApplyLiveData() {
		t.Error("gate opens exactly at the deadline")
	}
}

func TestReplaceBoardRefusedWhileEditing(t *testing.T) {
	s := New(&fakeStore{}, fakeDefs{}, testBoard())
	s.EnterEdit()

	replacement := model.Board{Linkage: model.LinkageLinked}
	s.ReplaceBoard(replacement)
	if len(s.Board().Widgets) != 2 {
		t.Error("external board update must be dropped during an edit session")
	}

	s.Cancel()
	s.ReplaceBoard(replacement)
	if len(s.Board().Widgets) != 0 {
		t.Error("external board update should apply while viewing")
	}
}
