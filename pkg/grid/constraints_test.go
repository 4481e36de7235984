package grid

import "testing"

func TestScaleConstraint(t *testing.T) {
	tests := []struct {
		name string
		in   Constraint
		bp   Breakpoint
		want Constraint
	}{
		{
			name: "wide passes through with clamping",
			in:   Constraint{MinW: 4, MinH: 2, MaxW: 12, MaxH: 6},
			bp:   Wide,
			want: Constraint{MinW: 4, MinH: 2, MaxW: 12, MaxH: 6},
		},
		{
			name: "narrow compresses min width proportionally",
			in:   Constraint{MinW: 6, MinH: 2, MaxW: 12, MaxH: 6},
			bp:   Narrow,
			want: Constraint{MinW: 1, MinH: 2, MaxW: NarrowColumns, MaxH: 6},
		},
		{
			name: "narrow max width is clamped, never rescaled",
			in:   Constraint{MinW: 2, MinH: 1, MaxW: 8, MaxH: 4},
			bp:   Narrow,
			want: Constraint{MinW: 1, MinH: 1, MaxW: NarrowColumns, MaxH: 4},
		},
		{
			name: "narrow max width below narrow columns stays put",
			in:   Constraint{MinW: 2, MinH: 1, MaxW: 3, MaxH: 4},
			bp:   Narrow,
			want: Constraint{MinW: 1, MinH: 1, MaxW: 3, MaxH: 4},
		},
		{
			name: "narrow min width never drops below 1",
			in:   Constraint{MinW: 1, MinH: 1, MaxW: 24, MaxH: 4},
			bp:   Narrow,
			want: Constraint{MinW: 1, MinH: 1, MaxW: NarrowColumns, MaxH: 4},
		},
		{
			name: "narrow max width clamps to full narrow width",
			in:   Constraint{MinW: 12, MinH: 3, MaxW: 48, MaxH: 9},
			bp:   Narrow,
			want: Constraint{MinW: 2, MinH: 3, MaxW: NarrowColumns, MaxH: 9},
		},
		{
			name: "heights never rescale",
			in:   Constraint{MinW: 2, MinH: 5, MaxW: 8, MaxH: 11},
			bp:   Narrow,
			want: Constraint{MinW: 1, MinH: 5, MaxW: NarrowColumns, MaxH: 11},
		},
		{
			name: "zero fields take defaults",
			in:   Constraint{},
			bp:   Wide,
			want: Constraint{MinW: 1, MinH: DefaultMinRows, MaxW: WideColumns, MaxH: DefaultMaxRows},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleConstraint(tt.in, tt.bp)
			if got != tt.want {
				t.Errorf("ScaleConstraint(%+v, %s) = %+v, want %+v", tt.in, tt.bp, got, tt.want)
			}
		})
	}
}

// ScaleConstraint must be pure: same input, same output, every time.
func TestScaleConstraintPure(t *testing.T) {
	in := Constraint{MinW: 6, MinH: 2, MaxW: 18, MaxH: 8}
	first := ScaleConstraint(in, Narrow)
	for i := 0; i < 100; i++ {
		if got := ScaleConstraint(in, Narrow); got != first {
			t.Fatalf("iteration %d: got %+v, want %+v", i, got, first)
		}
	}
}

// Round-trip property: scaling to narrow never yields bounds below minW=1
// nor above the full narrow width, whatever the wide declaration was.
func TestScaleConstraintRoundTripBounds(t *testing.T) {
	for minW := 0; minW <= WideColumns; minW++ {
		for maxW := minW; maxW <= WideColumns*2; maxW += 3 {
			c := Constraint{MinW: minW, MinH: 1, MaxW: maxW, MaxH: 4}
			got := ScaleConstraint(c, Narrow)
			if got.MinW < 1 {
				t.Fatalf("minW %d scaled below 1: %+v", minW, got)
			}
			if got.MaxW > NarrowColumns {
				t.Fatalf("maxW %d scaled past narrow width: %+v", maxW, got)
			}
			if got.MaxW < got.MinW {
				t.Fatalf("inverted bounds for (%d,%d): %+v", minW, maxW, got)
			}
		}
	}
}

func TestClampSize(t *testing.T) {
	c := Constraint{MinW: 2, MinH: 2, MaxW: 8, MaxH: 6}
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"inside bounds", 4, 4, 4, 4},
		{"below minimum", 1, 0, 2, 2},
		{"above maximum", 20, 9, 8, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := c.ClampSize(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ClampSize(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
