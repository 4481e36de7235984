package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dashgrid/pkg/grid"
	"dashgrid/pkg/model"
)

// fieldBounds is the closed integer range of one editor field.
type fieldBounds struct {
	min, max int
}

func (b fieldBounds) clamp(v int) int {
	if v < b.min {
		return b.min
	}
	if v > b.max {
		return b.max
	}
	return v
}

// layoutEditor is the manual resize/reposition surface: four bounded integer
// fields validated on every keystroke. It edits a copy; the caller commits
// the result into the session, never into persisted state.
type layoutEditor struct {
	item    grid.PositionedItem
	bp      grid.Breakpoint
	layout  model.Layout
	inputs  [4]textinput.Model
	focused int
	errs    [4]string
}

const (
	fieldX = iota
	fieldY
	fieldW
	fieldH
)

var fieldNames = [4]string{"x", "y", "width", "height"}

// newLayoutEditor starts an editor for one positioned widget.
func newLayoutEditor(item grid.PositionedItem, bp grid.Breakpoint) *layoutEditor {
	e := &layoutEditor{
		item:   item,
		bp:     bp,
		layout: model.Layout{X: item.X, Y: item.Y, W: item.W, H: item.H},
	}
	values := [4]int{item.X, item.Y, item.W, item.H}
	for i := range e.inputs {
		in := textinput.New()
		in.CharLimit = 4
		in.Width = 5
		in.Prompt = ""
		in.SetValue(strconv.Itoa(values[i]))
		e.inputs[i] = in
	}
	e.inputs[0].Focus()
	return e
}

// bounds returns the valid range of each field given the current layout.
// Position maxima depend on the current size, so they move as w/h change.
func (e *layoutEditor) bounds() [4]fieldBounds {
	cols := grid.Columns(e.bp)
	return [4]fieldBounds{
		fieldX: {0, cols - e.layout.W},
		fieldY: {0, 999},
		fieldW: {e.item.MinW, minInt(e.item.MaxW, cols)},
		fieldH: {e.item.MinH, e.item.MaxH},
	}
}

// Update handles a key event. Tab/shift-tab move focus; digits edit the
// focused field and re-validate immediately.
func (e *layoutEditor) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if ok {
		switch key.String() {
		case "tab", "down":
			e.focus((e.focused + 1) % len(e.inputs))
			return nil
		case "shift+tab", "up":
			e.focus((e.focused + len(e.inputs) - 1) % len(e.inputs))
			return nil
		}
	}

	var cmd tea.Cmd
	e.inputs[e.focused], cmd = e.inputs[e.focused].Update(msg)
	e.validate()
	return cmd
}

func (e *layoutEditor) focus(i int) {
	e.inputs[e.focused].Blur()
	e.focused = i
	e.inputs[i].Focus()
}

// validate parses every field, records per-field errors, and applies the
// auto-correction rule: growing width past the right edge pulls x left just
// enough to stay in bounds.
func (e *layoutEditor) validate() {
	bounds := e.bounds()
	values := [4]int{e.layout.X, e.layout.Y, e.layout.W, e.layout.H}

	for i := range e.inputs {
		raw := strings.TrimSpace(e.inputs[i].Value())
		if raw == "" {
			e.errs[i] = "required"
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			e.errs[i] = "not a number"
			continue
		}
		e.errs[i] = ""
		values[i] = v
	}

	// Size first: width changes move the x ceiling.
	cols := grid.Columns(e.bp)
	wb := bounds[fieldW]
	hb := bounds[fieldH]
	values[fieldW] = wb.clamp(values[fieldW])
	values[fieldH] = hb.clamp(values[fieldH])

	if values[fieldX]+values[fieldW] > cols {
		values[fieldX] = cols - values[fieldW]
	}
	if values[fieldX] < 0 {
		values[fieldX] = 0
	}
	if values[fieldY] < 0 {
		values[fieldY] = 0
	}

	e.layout = model.Layout{
		X: values[fieldX],
		Y: values[fieldY],
		W: values[fieldW],
		H: values[fieldH],
	}
}

// Layout returns the current validated layout for committing to the session.
func (e *layoutEditor) Layout() model.Layout {
	e.validate()
	return e.layout
}

// View renders the editor fields with their bounds and any field errors.
func (e *layoutEditor) View() string {
	bounds := e.bounds()
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Edit %s placement (%s)", e.item.ID, e.bp)))
	for i := range e.inputs {
		row := lipgloss.JoinHorizontal(lipgloss.Center,
			editorLabelStyle.Render(fieldNames[i]),
			e.inputs[i].View(),
			helpStyle.Render(fmt.Sprintf("  [%d..%d]", bounds[i].min, bounds[i].max)),
		)
		if e.errs[i] != "" {
			row = lipgloss.JoinHorizontal(lipgloss.Center, row, editorErrorStyle.Render("  "+e.errs[i]))
		}
		rows = append(rows, row)
	}
	rows = append(rows, helpStyle.Render("enter apply · esc close · tab next field"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
