package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dashgrid/pkg/grid"
	"dashgrid/pkg/scroll"
)

// cellPxPerLine converts one terminal line into layout pixels so pointer
// rows feed the scroll controller in the same unit space as RowHeightPx.
const cellPxPerLine = grid.RowHeightPx / linesPerRow

// handleMouse drives drag gestures: press over a widget starts a drag,
// motion moves it (and feeds the pointer provider), release commits.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.sess.Editing() {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		id := m.hitTest(msg.X, msg.Y)
		if id == "" {
			return nil
		}
		m.selected = id
		m.startDrag(id, false, float64(msg.Y)*cellPxPerLine)
		return m.dragCmd()

	case tea.MouseActionMotion:
		if m.dragging == "" {
			return nil
		}
		if m.pointer != nil {
			m.pointer.y = float64(msg.Y) * cellPxPerLine
			m.pointer.have = true
		}
		return m.dragTo(msg.X, msg.Y)

	case tea.MouseActionRelease:
		m.stopDrag()
		return nil
	}
	return nil
}

// hitTest maps a terminal coordinate to the widget occupying it.
func (m *Model) hitTest(tx, ty int) string {
	bp := m.Breakpoint()
	cellW := m.width / grid.Columns(bp)
	if cellW < 3 {
		cellW = 3
	}
	gx := tx / cellW
	gy := (ty - 1 + m.scrollRows*linesPerRow) / linesPerRow // first line is the status bar

	for _, it := range m.Items() {
		if gx >= it.X && gx < it.X+it.W && gy >= it.Y && gy < it.Y+it.H {
			return it.ID
		}
	}
	return ""
}

// dragTo moves the dragged widget under the pointer.
func (m *Model) dragTo(tx, ty int) tea.Cmd {
	bp := m.Breakpoint()
	cellW := m.width / grid.Columns(bp)
	if cellW < 3 {
		cellW = 3
	}
	x := tx / cellW
	y := (ty - 1 + m.scrollRows*linesPerRow) / linesPerRow
	id := m.dragging
	if m.dragResize {
		item := m.selectedItem()
		if item == nil {
			return nil
		}
		w := x - item.X + 1
		h := y - item.Y + 1
		return m.runMutation(func() error { return m.sess.ResizeWidget(id, bp, w, h) })
	}
	return m.runMutation(func() error { return m.sess.MoveWidget(id, bp, x, y) })
}

// startDrag begins a gesture. A fresh pointer provider and controller are
// created per gesture and discarded on stop, so no pointer state survives
// between drags.
func (m *Model) startDrag(id string, resize bool, pointerY float64) {
	m.dragging = id
	m.dragResize = resize
	m.pointer = &pointerState{y: pointerY, have: pointerY >= 0}
	m.scroller = scroll.NewController(m.scrollCfg, m.pointer)
	m.scroller.Start(0, float64(m.viewLines())*cellPxPerLine)
	m.scroller.SetDownOnly(resize)
	m.lastTick = time.Now()
}

// toggleKeyboardDrag grabs or releases the selected widget without a mouse.
// resize selects the grow-downward gesture, which suppresses upward scroll.
func (m *Model) toggleKeyboardDrag(resize bool) {
	if !m.sess.Editing() || m.selected == "" {
		return
	}
	if m.dragging != "" {
		m.stopDrag()
		return
	}
	m.startDrag(m.selected, resize, -1)
}

// stopDrag ends the gesture and synchronously stops the scroll loop; the
// next scrollTickMsg finds no active controller and does not reschedule.
func (m *Model) stopDrag() {
	if m.scroller != nil {
		m.scroller.Stop()
	}
	m.scroller = nil
	m.pointer = nil
	m.dragging = ""
	m.dragResize = false
}

// dragCmd starts the animation loop for an active gesture.
func (m *Model) dragCmd() tea.Cmd {
	if m.dragging == "" {
		return nil
	}
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return scrollTickMsg(t) })
}

// tickScroll advances auto-scroll one frame and converts the pixel delta
// into scrolled grid rows.
func (m *Model) tickScroll(now time.Time) tea.Cmd {
	if m.scroller == nil || !m.scroller.Active() {
		return nil
	}
	dt := now.Sub(m.lastTick).Seconds()
	m.lastTick = now
	if dt <= 0 {
		dt = tickInterval.Seconds()
	}

	m.scrollPx += m.scroller.Tick(dt)
	if m.scrollPx < 0 {
		m.scrollPx = 0
	}
	m.scrollRows = int(m.scrollPx) / grid.RowHeightPx

	return m.dragCmd()
}

func (m *Model) viewLines() int {
	lines := m.height - 3
	if lines < 1 {
		lines = 1
	}
	return lines
}
