package grid

import "dashgrid/pkg/model"

// TypeDefaults supplies per-widget-type sizing defaults and constraints,
// always in wide-grid units. The widget type registry implements it.
type TypeDefaults interface {
	// DefaultSize returns the default width and height for a widget type.
	DefaultSize(widgetType string) (w, h int)
	// TypeConstraint returns the declared constraint for a widget type and
	// whether one exists.
	TypeConstraint(widgetType string) (Constraint, bool)
}

// PositionedItem is the fully-resolved placement record the rendering grid
// consumes: position, size, and the effective bounds for the breakpoint it
// was built for. All defaults have been applied; consumers never see a zero
// width or height.
type PositionedItem struct {
	ID   string
	Type string
	X    int
	Y    int
	W    int
	H    int
	MinW int
	MinH int
	MaxW int
	MaxH int
}

// BuildItem converts a widget into the positioned record for one breakpoint.
//
// This is the only place defaults resolve: the narrow layout falls back to
// the wide one before first derivation, missing sizes fill from the type's
// declared default, and the scaled constraint is merged in. Every component
// downstream assumes fully-populated layouts.
func BuildItem(w model.Widget, b Breakpoint, defs TypeDefaults) PositionedItem {
	layout := w.Wide
	if b == Narrow && w.Narrow != nil {
		layout = *w.Narrow
	}

	if layout.W < 1 || layout.H < 1 {
		dw, dh := defs.DefaultSize(w.Type)
		if layout.W < 1 {
			layout.W = dw
		}
		if layout.H < 1 {
			layout.H = dh
		}
	}

	con := DefaultConstraint(b)
	if tc, ok := defs.TypeConstraint(w.Type); ok {
		con = ScaleConstraint(tc, b)
	}
	layout.W, layout.H = con.ClampSize(layout.W, layout.H)

	cols := Columns(b)
	if layout.W > cols {
		layout.W = cols
	}
	if layout.X < 0 {
		layout.X = 0
	}
	if layout.X+layout.W > cols {
		layout.X = cols - layout.W
	}
	if layout.Y < 0 {
		layout.Y = 0
	}

	return PositionedItem{
		ID:   w.ID,
		Type: w.Type,
		X:    layout.X,
		Y:    layout.Y,
		W:    layout.W,
		H:    layout.H,
		MinW: con.MinW,
		MinH: con.MinH,
		MaxW: con.MaxW,
		MaxH: con.MaxH,
	}
}

// BuildItems builds positioned records for a whole widget set, preserving
// input order.
func BuildItems(widgets []model.Widget, b Breakpoint, defs TypeDefaults) []PositionedItem {
	items := make([]PositionedItem, 0, len(widgets))
	for _, w := range widgets {
		items = append(items, BuildItem(w, b, defs))
	}
	return items
}
