package grid

import (
	"sort"

	"dashgrid/pkg/model"
)

// DeriveNarrow computes a narrow-breakpoint layout for every widget from the
// wide-breakpoint placement: a single-column stack with no overlaps and no
// gaps that preserves the visual grouping of the wide arrangement.
//
// The sweep groups widgets into horizontal bands. A band breaks ("hard cut")
// where the next widget in (y, x, id) order starts at or below the running
// maximum bottom edge of the current band; widgets that vertically overlap
// the band join it. Within a band, members stack in (x, y, id) reading
// order, so side-by-side widgets on wide stay adjacent on narrow.
//
// The id tie-breaks make the result independent of input order and free of
// any clock or randomness: deriving twice from the same wide layout yields
// identical output.
//
// Widgets with a malformed wide layout are excluded rather than failing the
// batch; they simply get no narrow layout. An empty widget set yields an
// empty result.
func DeriveNarrow(widgets []model.Widget, defs TypeDefaults) map[string]model.Layout {
	sorted := make([]model.Widget, 0, len(widgets))
	for _, w := range widgets {
		if w.Wide.Malformed() {
			continue
		}
		sorted = append(sorted, w)
	}

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Wide.Y != b.Wide.Y {
			return a.Wide.Y < b.Wide.Y
		}
		if a.Wide.X != b.Wide.X {
			return a.Wide.X < b.Wide.X
		}
		return a.ID < b.ID
	})

	// Sweep into bands. maxEnd tracks the bottom edge of the current band;
	// a widget starting at or past it opens a new band.
	var bands [][]model.Widget
	var band []model.Widget
	maxEnd := 0
	for _, w := range sorted {
		if len(band) > 0 && w.Wide.Y >= maxEnd {
			bands = append(bands, band)
			band = nil
		}
		if end := w.Wide.Y + w.Wide.H; len(band) == 0 || end > maxEnd {
			maxEnd = end
		}
		band = append(band, w)
	}
	if len(band) > 0 {
		bands = append(bands, band)
	}

	out := make(map[string]model.Layout, len(sorted))
	runningY := 0
	for _, band := range bands {
		sort.Slice(band, func(i, j int) bool {
			a, b := band[i], band[j]
			if a.Wide.X != b.Wide.X {
				return a.Wide.X < b.Wide.X
			}
			if a.Wide.Y != b.Wide.Y {
				return a.Wide.Y < b.Wide.Y
			}
			return a.ID < b.ID
		})
		for _, w := range band {
			h := mobileHeight(w, defs)
			out[w.ID] = model.Layout{X: 0, Y: runningY, W: NarrowColumns, H: h}
			runningY += h
		}
	}
	return out
}

// mobileHeight is the stacked height for one widget: the wide height, raised
// to the type's minimum. Derived heights are deliberately not reclamped
// against the narrow maximum; see the note in derive_test.go.
func mobileHeight(w model.Widget, defs TypeDefaults) int {
	h := w.Wide.H
	minH := DefaultMinRows
	if tc, ok := defs.TypeConstraint(w.Type); ok {
		scaled := ScaleConstraint(tc, Narrow)
		minH = scaled.MinH
	}
	if h < minH {
		h = minH
	}
	return h
}

// ApplyNarrow writes a derived narrow layout back onto the widget set.
// Widgets absent from the derivation (malformed wide layout) keep whatever
// narrow layout they already had.
func ApplyNarrow(widgets []model.Widget, derived map[string]model.Layout) {
	for i := range widgets {
		if l, ok := derived[widgets[i].ID]; ok {
			v := l
			widgets[i].Narrow = &v
		}
	}
}
