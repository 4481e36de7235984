// Package ui is the terminal rendering and gesture surface for the
// dashboard: it draws the positioned grid, feeds drag gestures and pointer
// samples into the layout core, and hosts the manual placement editor, the
// add-widget picker, the unlink confirmation, and toast notifications.
package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"dashgrid/pkg/grid"
	"dashgrid/pkg/model"
	"dashgrid/pkg/registry"
	"dashgrid/pkg/scroll"
	"dashgrid/pkg/session"
)

// narrowTermWidth is the terminal width below which the narrow breakpoint is
// rendered instead of the wide one.
const narrowTermWidth = 80

// tickInterval drives the auto-scroll animation loop while a drag is active.
const tickInterval = time.Second / 60

type mode int

const (
	modeGrid mode = iota
	modeEditor
	modePicker
	modeConfirm
)

type (
	// scrollTickMsg advances the auto-scroll controller one frame.
	scrollTickMsg time.Time
	// LiveDataMsg carries one live feed payload into the event loop.
	LiveDataMsg struct {
		Topic   string
		Payload []byte
	}
	// LiveErrMsg carries a feed delivery error.
	LiveErrMsg struct{ Err error }
	// ErrorMsg surfaces a failure from outside the UI, e.g. the session's
	// error observer, as a toast.
	ErrorMsg struct {
		Title   string
		Message string
	}
	// saveDoneMsg delivers the outcome of an async store write back onto
	// the event loop, where the session applies it.
	saveDoneMsg struct {
		attempt *session.SaveAttempt
		err     error
	}
)

// pointerState implements scroll.PositionProvider from mouse events. One
// instance exists per drag gesture and is discarded with it.
type pointerState struct {
	y    float64
	have bool
}

func (p *pointerState) PointerY() (float64, bool) { return p.y, p.have }

// Model is the top-level bubbletea model.
type Model struct {
	sess *session.Session
	reg  *registry.Registry

	width  int
	height int

	forceBreak    *grid.Breakpoint
	selected      string
	mode          mode
	toasts        toastState
	statusUpdates map[string]time.Time

	// drag state
	dragging   string
	dragResize bool
	pointer    *pointerState
	scroller   *scroll.Controller
	scrollCfg  scroll.Config
	scrollPx   float64
	scrollRows int
	lastTick   time.Time

	// overlays
	editor      *layoutEditor
	picker      textinput.Model
	confirmForm *huh.Form
	confirmed   bool
	pendingEdit func() error

	live <-chan tea.Msg
}

// NewModel builds the UI over an existing session and registry. live may be
// nil when no feed is configured.
func NewModel(sess *session.Session, reg *registry.Registry, scrollCfg scroll.Config, live <-chan tea.Msg) *Model {
	picker := textinput.New()
	picker.Placeholder = "widget type…"
	picker.CharLimit = 32
	return &Model{
		sess:          sess,
		reg:           reg,
		scrollCfg:     scrollCfg,
		picker:        picker,
		statusUpdates: make(map[string]time.Time),
		live:          live,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitLive()
}

func (m *Model) waitLive() tea.Cmd {
	if m.live == nil {
		return nil
	}
	ch := m.live
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Breakpoint returns the breakpoint currently rendered, derived from the
// terminal width unless the user pinned one.
func (m *Model) Breakpoint() grid.Breakpoint {
	if m.forceBreak != nil {
		return *m.forceBreak
	}
	if m.width > 0 && m.width < narrowTermWidth {
		return grid.Narrow
	}
	return grid.Wide
}

// Items returns the positioned items for the rendered breakpoint.
func (m *Model) Items() []grid.PositionedItem {
	return grid.BuildItems(m.sess.Board().Widgets, m.Breakpoint(), m.reg)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toastExpiredMsg:
		m.toasts.expire(msg)
		return m, nil

	case LiveDataMsg:
		cmd := m.applyLiveData(msg)
		return m, tea.Batch(cmd, m.waitLive())

	case LiveErrMsg:
		cmd := m.toasts.show(toastError, "Live data error", msg.Err.Error())
		return m, tea.Batch(cmd, m.waitLive())

	case ErrorMsg:
		cmd := m.toasts.show(toastError, msg.Title, msg.Message)
		return m, tea.Batch(cmd, m.waitLive())

	case saveDoneMsg:
		if err := m.sess.CompleteSave(msg.attempt, msg.err); err != nil {
			// The session already routed the user-visible error through
			// its observers.
			return m, nil
		}
		if m.sess.Dirty() {
			return m, m.toasts.show(toastInfo, "Saved", "newer edits pending")
		}
		return m, m.toasts.show(toastInfo, "Saved", "")

	case scrollTickMsg:
		return m, m.tickScroll(time.Time(msg))

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateOverlay(msg)
}

// applyLiveData runs a payload through the session's suppression gate.
// Dropped payloads are routine and silent.
func (m *Model) applyLiveData(msg LiveDataMsg) tea.Cmd {
	if !m.sess.ShouldApplyLiveData() {
		return nil
	}
	m.statusUpdates[msg.Topic] = time.Now()
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeEditor:
		return m.updateEditor(msg)
	case modePicker:
		return m.updatePicker(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.sess.Editing() && m.sess.Dirty() {
			cmd := m.toasts.show(toastInfo, "Unsaved changes", "save (s) or cancel (esc) first")
			return m, cmd
		}
		return m, tea.Quit

	case "e":
		m.sess.ToggleEdit()
		return m, nil

	case "esc":
		if m.sess.Editing() {
			m.stopDrag()
			m.sess.Cancel()
		}
		return m, nil

	case "s":
		if !m.sess.Editing() {
			return m, nil
		}
		// Snapshot on the event loop, write off it: the store call must not
		// freeze the UI, and the session stays editable meanwhile.
		attempt, err := m.sess.BeginSave()
		if err != nil {
			if err == session.ErrSaveInFlight {
				return m, m.toasts.show(toastInfo, "Save in progress", "")
			}
			return m, nil
		}
		return m, func() tea.Msg {
			return saveDoneMsg{attempt: attempt, err: attempt.Persist(context.Background())}
		}

	case "u":
		m.sess.Undo()
		return m, nil

	case "ctrl+r":
		m.sess.Redo()
		return m, nil

	case "tab":
		m.selectNext(1)
		return m, nil

	case "shift+tab":
		m.selectNext(-1)
		return m, nil

	case "b":
		m.toggleBreakpoint()
		return m, nil

	case "n":
		if m.sess.Editing() {
			m.mode = modePicker
			m.picker.SetValue("")
			m.picker.Focus()
		}
		return m, nil

	case "x":
		return m, m.withSelected(func(id string) error { return m.sess.DeleteWidget(id) })

	case "D":
		return m, m.withSelected(func(id string) error {
			return m.sess.DuplicateWidget(id, uuid.NewString())
		})

	case "c":
		return m, m.copySelected()

	case "m":
		if m.sess.Editing() && m.selectedItem() != nil {
			m.editor = newLayoutEditor(*m.selectedItem(), m.Breakpoint())
			m.mode = modeEditor
		}
		return m, nil

	case " ":
		m.toggleKeyboardDrag(false)
		return m, m.dragCmd()

	case "R":
		m.toggleKeyboardDrag(true)
		return m, m.dragCmd()

	case "up", "down", "left", "right":
		return m, m.moveSelected(msg.String(), false)

	case "shift+up", "shift+down", "shift+left", "shift+right":
		return m, m.moveSelected(msg.String(), true)
	}

	return m, nil
}

// withSelected applies an edit-session mutation to the selected widget,
// routing the unlink confirmation when the narrow layout is still linked.
func (m *Model) withSelected(fn func(id string) error) tea.Cmd {
	if !m.sess.Editing() || m.selected == "" {
		return nil
	}
	return m.runMutation(func() error { return fn(m.selected) })
}

func (m *Model) runMutation(fn func() error) tea.Cmd {
	err := fn()
	if err == nil {
		return nil
	}
	if err == session.ErrUnlinkRequired {
		m.pendingEdit = fn
		m.openConfirm()
		return m.confirmForm.Init()
	}
	if err == session.ErrNotEditing {
		return m.toasts.show(toastInfo, "View mode", "press e to edit")
	}
	return m.toasts.show(toastError, "Edit failed", err.Error())
}

func (m *Model) moveSelected(key string, resize bool) tea.Cmd {
	item := m.selectedItem()
	if item == nil || !m.sess.Editing() {
		return nil
	}
	dx, dy := 0, 0
	switch key {
	case "up", "shift+up":
		dy = -1
	case "down", "shift+down":
		dy = 1
	case "left", "shift+left":
		dx = -1
	case "right", "shift+right":
		dx = 1
	}
	bp := m.Breakpoint()
	id := item.ID
	if resize {
		w, h := item.W+dx, item.H+dy
		return m.runMutation(func() error { return m.sess.ResizeWidget(id, bp, w, h) })
	}
	x, y := item.X+dx, item.Y+dy
	return m.runMutation(func() error { return m.sess.MoveWidget(id, bp, x, y) })
}

func (m *Model) copySelected() tea.Cmd {
	w := m.sess.Board().Find(m.selected)
	if w == nil {
		return nil
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return m.toasts.show(toastError, "Copy failed", err.Error())
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return m.toasts.show(toastError, "Copy failed", err.Error())
	}
	return m.toasts.show(toastInfo, "Copied", m.selected)
}

func (m *Model) selectedItem() *grid.PositionedItem {
	for _, it := range m.Items() {
		if it.ID == m.selected {
			v := it
			return &v
		}
	}
	return nil
}

func (m *Model) selectNext(dir int) {
	items := m.Items()
	if len(items) == 0 {
		m.selected = ""
		return
	}
	idx := -1
	for i, it := range items {
		if it.ID == m.selected {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(items)) % len(items)
	m.selected = items[idx].ID
}

func (m *Model) toggleBreakpoint() {
	if m.forceBreak == nil {
		bp := grid.Narrow
		if m.Breakpoint() == grid.Narrow {
			bp = grid.Wide
		}
		m.forceBreak = &bp
		return
	}
	m.forceBreak = nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	bp := m.Breakpoint()
	gridLines := m.height - 3
	body := renderGrid(m.Items(), bp, m.width, m.selected, m.dragging, m.scrollRows, gridLines)

	switch m.mode {
	case modeEditor:
		if m.editor != nil {
			body = m.editor.View()
		}
	case modePicker:
		body = m.pickerView()
	case modeConfirm:
		if m.confirmForm != nil {
			body = m.confirmForm.View()
		}
	}

	sections := []string{m.statusBar(bp), body}
	if toast := m.toasts.view(); toast != "" {
		sections = append(sections, toast)
	}
	if detail := m.noteDetail(); detail != "" && m.mode == modeGrid {
		sections = append(sections, detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// noteDetail renders the selected note widget's markdown body.
func (m *Model) noteDetail() string {
	w := m.sess.Board().Find(m.selected)
	if w == nil {
		return ""
	}
	note, ok := w.Config.(model.NoteConfig)
	if !ok || note.Body == "" {
		return ""
	}
	out, err := glamour.Render(note.Body, "dark")
	if err != nil {
		return ""
	}
	return out
}

func (m *Model) statusBar(bp grid.Breakpoint) string {
	state := m.sess.State().String()
	parts := []string{
		titleStyle.Render("dashgrid"),
		statusStyle.Render(fmt.Sprintf("%s · %s · %d widgets", bp, state, len(m.sess.Board().Widgets))),
	}
	if m.sess.Linkage() == model.LinkageIndependent {
		parts = append(parts, statusStyle.Render("unlinked"))
	}
	if n := len(m.statusUpdates); n > 0 {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("live ×%d", n)))
	}
	if m.sess.Dirty() {
		parts = append(parts, dirtyStyle.Render("● unsaved"))
	}
	if m.sess.Editing() {
		parts = append(parts, helpStyle.Render("arrows move · shift+arrows resize · m editor · n add · x del · D dup · u undo · ctrl+r redo · s save · esc cancel"))
	} else {
		parts = append(parts, helpStyle.Render("e edit · tab select · b breakpoint · c copy · q quit"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, joinWith(parts, "  ")...)
}

func joinWith(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
