// Package grid implements the dual-breakpoint grid coordinate model: the two
// breakpoints and their column counts, per-breakpoint sizing constraints, the
// positioned items a renderer consumes, and the derivation of the narrow
// single-column stack from the wide placement.
package grid

// Breakpoint selects one of the two grid resolutions.
type Breakpoint int

const (
	// Wide is the desktop arrangement.
	Wide Breakpoint = iota
	// Narrow is the mobile arrangement.
	Narrow
)

// String returns the human-readable name of the breakpoint.
func (b Breakpoint) String() string {
	if b == Narrow {
		return "narrow"
	}
	return "wide"
}

// Column counts per breakpoint. Every component reads these through
// Columns(); nothing else in the system hardcodes a column count, so the
// derivation engine and the renderer cannot disagree on grid resolution.
const (
	WideColumns   = 24
	NarrowColumns = 4
)

// Shared vertical metrics. Row height is identical in both breakpoints,
// which is why height constraints never rescale (see ScaleConstraint).
const (
	RowHeightPx = 64
	MarginPx    = 8
	PaddingPx   = 8
)

// Default sizing bounds, applied when a widget type declares none.
const (
	DefaultMinRows = 1
	DefaultMaxRows = 16
)

// Columns returns the column count for a breakpoint.
func Columns(b Breakpoint) int {
	if b == Narrow {
		return NarrowColumns
	}
	return WideColumns
}
