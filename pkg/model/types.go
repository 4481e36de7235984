package model

import "fmt"

// Widget is the unit of placement on a dashboard.
type Widget struct {
	ID     string       `json:"id"`
	Type   string       `json:"type"`
	Wide   Layout       `json:"wide_layout"`
	Narrow *Layout      `json:"narrow_layout,omitempty"`
	Config WidgetConfig `json:"-"`
}

// Clone creates a deep copy of the widget.
func (w Widget) Clone() Widget {
	clone := w
	if w.Narrow != nil {
		v := *w.Narrow
		clone.Narrow = &v
	}
	if w.Config != nil {
		clone.Config = w.Config.CloneConfig()
	}
	return clone
}

// Validate checks if the widget data is logically valid.
// The column count is that of the wide breakpoint, since the wide layout is
// the authoritative one.
func (w *Widget) Validate(wideColumns int) error {
	if w.ID == "" {
		return fmt.Errorf("widget ID cannot be empty")
	}
	if w.Type == "" {
		return fmt.Errorf("widget %s: type cannot be empty", w.ID)
	}
	if err := w.Wide.Validate(wideColumns); err != nil {
		return fmt.Errorf("widget %s: wide layout: %w", w.ID, err)
	}
	return nil
}

// Layout is a position and size in grid units for one breakpoint.
type Layout struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Validate checks the placement invariant against a column count.
func (l Layout) Validate(columns int) error {
	if l.W < 1 || l.H < 1 {
		return fmt.Errorf("size %dx%d must be at least 1x1", l.W, l.H)
	}
	if l.X < 0 || l.Y < 0 {
		return fmt.Errorf("position (%d,%d) cannot be negative", l.X, l.Y)
	}
	if l.X+l.W > columns {
		return fmt.Errorf("right edge %d exceeds %d columns", l.X+l.W, columns)
	}
	return nil
}

// Malformed reports whether the layout is unusable as derivation input.
// Malformed layouts are skipped rather than treated as errors.
func (l Layout) Malformed() bool {
	return l.W < 1 || l.H < 1 || l.X < 0 || l.Y < 0
}

// Linkage describes how the narrow layout relates to the wide one.
type Linkage string

const (
	// LinkageLinked means the narrow layout is auto-derived from the wide
	// layout on every save.
	LinkageLinked Linkage = "linked"
	// LinkageIndependent means the user has unlinked the narrow layout and
	// maintains it by hand.
	LinkageIndependent Linkage = "independent"
)

// IsValid returns true if the linkage is a recognized value.
func (l Linkage) IsValid() bool {
	return l == LinkageLinked || l == LinkageIndependent
}

// Board is the full persisted state of one dashboard: every widget's
// placement in both breakpoints plus the narrow-mode linkage flag.
type Board struct {
	Widgets []Widget `json:"widgets"`
	Linkage Linkage  `json:"linkage"`
}

// Clone creates a deep copy of the board. Clones are the unit of undo/redo
// history, so they must share no mutable state with the original.
func (b Board) Clone() Board {
	clone := b
	if b.Widgets != nil {
		clone.Widgets = make([]Widget, len(b.Widgets))
		for i, w := range b.Widgets {
			clone.Widgets[i] = w.Clone()
		}
	}
	return clone
}

// Find returns a pointer into the widget slice for the given ID, or nil.
func (b Board) Find(id string) *Widget {
	for i := range b.Widgets {
		if b.Widgets[i].ID == id {
			return &b.Widgets[i]
		}
	}
	return nil
}

// Remove deletes the widget with the given ID, returning true if it existed.
func (b *Board) Remove(id string) bool {
	for i := range b.Widgets {
		if b.Widgets[i].ID == id {
			b.Widgets = append(b.Widgets[:i], b.Widgets[i+1:]...)
			return true
		}
	}
	return false
}
