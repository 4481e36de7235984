package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"dashgrid/pkg/model"
)

// updateOverlay routes non-key messages to whichever overlay is open.
func (m *Model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeEditor:
		if m.editor != nil {
			return m, m.editor.Update(msg)
		}
	case modePicker:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateEditor handles keys while the manual placement editor is open.
func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor = nil
		m.mode = modeGrid
		return m, nil
	case "enter":
		if m.editor == nil {
			m.mode = modeGrid
			return m, nil
		}
		layout := m.editor.Layout()
		id := m.editor.item.ID
		bp := m.editor.bp
		m.editor = nil
		m.mode = modeGrid
		return m, m.runMutation(func() error { return m.sess.SetLayout(id, bp, layout) })
	}
	return m, m.editor.Update(msg)
}

// updatePicker handles the add-widget type picker.
func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeGrid
		return m, nil
	case "enter":
		matches := m.reg.Search(m.picker.Value())
		m.mode = modeGrid
		if len(matches) == 0 {
			return m, m.toasts.show(toastInfo, "No matching widget type", "")
		}
		meta := matches[0]
		if meta.IsGlobal && m.hasWidgetOfType(meta.Type) {
			return m, m.toasts.show(toastInfo, meta.Title+" already on the board", "")
		}
		w := model.Widget{
			ID:   uuid.NewString(),
			Type: meta.Type,
			Wide: model.Layout{X: 0, Y: m.nextFreeRow(), W: meta.DefaultW, H: meta.DefaultH},
		}
		m.selected = w.ID
		return m, m.runMutation(func() error { return m.sess.AddWidget(w) })
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) hasWidgetOfType(widgetType string) bool {
	for _, w := range m.sess.Board().Widgets {
		if w.Type == widgetType {
			return true
		}
	}
	return false
}

// nextFreeRow is the first row below every existing wide placement, so an
// added widget never lands on top of another.
func (m *Model) nextFreeRow() int {
	maxY := 0
	for _, w := range m.sess.Board().Widgets {
		if end := w.Wide.Y + w.Wide.H; end > maxY {
			maxY = end
		}
	}
	return maxY
}

func (m *Model) pickerView() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Add widget"), m.picker.View(), "")
	for i, meta := range m.reg.Search(m.picker.Value()) {
		line := "  " + meta.Title + " (" + meta.Type + ")"
		if i == 0 {
			line = statusStyle.Render("▸" + line[1:])
		} else {
			line = helpStyle.Render(line)
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", helpStyle.Render("enter add best match · esc close"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// openConfirm shows the unlink confirmation. The mobile layout stops being
// auto-derived once unlinked, so this is never done silently.
func (m *Model) openConfirm() {
	m.confirmed = false
	m.confirmForm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Unlink mobile layout?").
			Description("The mobile layout will no longer follow the desktop layout. You will maintain it separately.").
			Affirmative("Unlink").
			Negative("Keep linked").
			Value(&m.confirmed),
	))
	m.mode = modeConfirm
}

// updateConfirm runs the huh form and, on an affirmative answer, unlinks and
// replays the mutation that triggered the prompt.
func (m *Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeGrid
		return m, nil
	}
	form, cmd := m.confirmForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.mode = modeGrid
	pending := m.pendingEdit
	m.pendingEdit = nil
	m.confirmForm = nil
	if !m.confirmed || pending == nil {
		return m, cmd
	}
	if err := m.sess.Unlink(); err != nil {
		return m, m.toasts.show(toastError, "Unlink failed", err.Error())
	}
	return m, tea.Batch(cmd, m.runMutation(pending))
}
