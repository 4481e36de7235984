package model

import (
	"testing"
)

func TestWidgetCloneIsDeep(t *testing.T) {
	narrow := Layout{X: 0, Y: 2, W: 4, H: 3}
	w := Widget{
		ID:     "note-1",
		Type:   "note",
		Wide:   Layout{X: 2, Y: 0, W: 6, H: 4},
		Narrow: &narrow,
		Config: NoteConfig{Body: "hello", Extra: map[string]string{"color": "red"}},
	}

	clone := w.Clone()
	clone.Narrow.Y = 99
	clone.Config.(NoteConfig).Extra["color"] = "blue"

	if w.Narrow.Y != 2 {
		t.Errorf("clone shares the narrow layout pointer")
	}
	if w.Config.(NoteConfig).Extra["color"] != "red" {
		t.Errorf("clone shares the config extras map")
	}
}

func TestBoardCloneIsDeep(t *testing.T) {
	b := Board{
		Linkage: LinkageLinked,
		Widgets: []Widget{
			{ID: "a", Type: "clock", Wide: Layout{W: 4, H: 2}},
		},
	}
	clone := b.Clone()
	clone.Widgets[0].Wide.X = 9
	clone.Widgets = append(clone.Widgets, Widget{ID: "b"})

	if b.Widgets[0].Wide.X != 0 {
		t.Errorf("clone shares widget storage with the original")
	}
	if len(b.Widgets) != 1 {
		t.Errorf("appending to the clone grew the original")
	}
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		columns int
		wantErr bool
	}{
		{"fits exactly", Layout{X: 20, Y: 0, W: 4, H: 2}, 24, false},
		{"zero width", Layout{X: 0, Y: 0, W: 0, H: 2}, 24, true},
		{"zero height", Layout{X: 0, Y: 0, W: 2, H: 0}, 24, true},
		{"negative x", Layout{X: -1, Y: 0, W: 2, H: 2}, 24, true},
		{"negative y", Layout{X: 0, Y: -3, W: 2, H: 2}, 24, true},
		{"overflows right edge", Layout{X: 21, Y: 0, W: 4, H: 2}, 24, true},
		{"narrow full width", Layout{X: 0, Y: 0, W: 4, H: 2}, 4, false},
		{"narrow overflow", Layout{X: 1, Y: 0, W: 4, H: 2}, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate(tt.columns)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%d) error = %v, wantErr %v", tt.columns, err, tt.wantErr)
			}
		})
	}
}

func TestLayoutMalformed(t *testing.T) {
	if (Layout{X: 0, Y: 0, W: 1, H: 1}).Malformed() {
		t.Error("1x1 at origin flagged as malformed")
	}
	// Overflow past the right edge is clampable, not malformed.
	if (Layout{X: 23, Y: 0, W: 4, H: 2}).Malformed() {
		t.Error("overflowing layout flagged as malformed")
	}
	for _, l := range []Layout{
		{W: 0, H: 1}, {W: 1, H: 0}, {X: -1, W: 1, H: 1}, {Y: -1, W: 1, H: 1},
	} {
		if !l.Malformed() {
			t.Errorf("%+v should be malformed", l)
		}
	}
}

func TestWidgetValidate(t *testing.T) {
	good := Widget{ID: "a", Type: "clock", Wide: Layout{W: 4, H: 2}}
	if err := good.Validate(24); err != nil {
		t.Errorf("valid widget rejected: %v", err)
	}

	noID := Widget{Type: "clock", Wide: Layout{W: 4, H: 2}}
	if err := noID.Validate(24); err == nil {
		t.Error("empty ID accepted")
	}

	noType := Widget{ID: "a", Wide: Layout{W: 4, H: 2}}
	if err := noType.Validate(24); err == nil {
		t.Error("empty type accepted")
	}

	badLayout := Widget{ID: "a", Type: "clock", Wide: Layout{X: 22, W: 4, H: 2}}
	if err := badLayout.Validate(24); err == nil {
		t.Error("overflowing wide layout accepted")
	}
}

func TestLinkageIsValid(t *testing.T) {
	if !LinkageLinked.IsValid() || !LinkageIndependent.IsValid() {
		t.Error("builtin linkage values rejected")
	}
	if Linkage("detached").IsValid() || Linkage("").IsValid() {
		t.Error("unknown linkage accepted")
	}
}

func TestBoardFindAndRemove(t *testing.T) {
	b := Board{Widgets: []Widget{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}

	if w := b.Find("b"); w == nil || w.ID != "b" {
		t.Fatalf("Find(b) = %+v", w)
	}
	b.Find("b").Wide.X = 5
	if b.Widgets[1].Wide.X != 5 {
		t.Error("Find must return a pointer into the board")
	}

	if !b.Remove("b") {
		t.Error("Remove(b) = false")
	}
	if b.Find("b") != nil {
		t.Error("widget still present after Remove")
	}
	if b.Remove("missing") {
		t.Error("Remove(missing) = true")
	}
	if got := len(b.Widgets); got != 2 {
		t.Errorf("len(Widgets) = %d, want 2", got)
	}
}
