package grid

import "math"

// Constraint bounds a widget's size. Widget types declare constraints in
// wide-grid column units; ScaleConstraint resolves them per breakpoint.
type Constraint struct {
	MinW int
	MinH int
	MaxW int
	MaxH int
}

// DefaultConstraint returns the bounds applied when a widget type declares
// none: at least 1x1, at most the full breakpoint width by DefaultMaxRows.
func DefaultConstraint(b Breakpoint) Constraint {
	return Constraint{
		MinW: 1,
		MinH: DefaultMinRows,
		MaxW: Columns(b),
		MaxH: DefaultMaxRows,
	}
}

// ScaleConstraint resolves a wide-unit constraint for a target breakpoint.
//
// The minimum width compresses proportionally when moving to the narrower
// grid; the maximum width is only clamped to the narrow column count, so a
// type that may fill the wide grid may still fill the narrow one. Height
// bounds pass through unscaled because row height is shared across
// breakpoints. The function is pure: the derivation engine and the renderer
// both call it and must agree bit-for-bit on the result.
func ScaleConstraint(c Constraint, b Breakpoint) Constraint {
	def := DefaultConstraint(b)
	out := Constraint{
		MinW: c.MinW,
		MinH: c.MinH,
		MaxW: c.MaxW,
		MaxH: c.MaxH,
	}
	if out.MinW <= 0 {
		out.MinW = def.MinW
	}
	if out.MinH <= 0 {
		out.MinH = def.MinH
	}
	if out.MaxW <= 0 {
		out.MaxW = Columns(Wide)
	}
	if out.MaxH <= 0 {
		out.MaxH = def.MaxH
	}

	if b == Narrow {
		ratio := float64(NarrowColumns) / float64(WideColumns)
		out.MinW = int(math.Round(float64(out.MinW) * ratio))
	}

	cols := Columns(b)
	if out.MinW < 1 {
		out.MinW = 1
	}
	if out.MinW > cols {
		out.MinW = cols
	}
	if out.MaxW > cols {
		out.MaxW = cols
	}
	if out.MaxW < out.MinW {
		out.MaxW = out.MinW
	}
	if out.MaxH < out.MinH {
		out.MaxH = out.MinH
	}
	return out
}

// ClampSize snaps a requested size into a constraint. Constraint violations
// are expected interactive feedback, so callers clamp silently rather than
// reporting an error.
func (c Constraint) ClampSize(w, h int) (int, int) {
	if w < c.MinW {
		w = c.MinW
	}
	if w > c.MaxW {
		w = c.MaxW
	}
	if h < c.MinH {
		h = c.MinH
	}
	if h > c.MaxH {
		h = c.MaxH
	}
	return w, h
}
