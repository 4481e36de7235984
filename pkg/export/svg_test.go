package export

import (
	"fmt"
	"strings"
	"testing"

	"dashgrid/pkg/grid"
)

func TestWriteSVG(t *testing.T) {
	items := []grid.PositionedItem{
		{ID: "clock-1", Type: "clock", X: 0, Y: 0, W: 4, H: 2},
		{ID: "note-1", Type: "note", X: 4, Y: 0, W: 6, H: 4},
	}

	var buf strings.Builder
	WriteSVG(&buf, items, grid.Wide)
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	wantWidth := fmt.Sprintf(`width="%d"`, grid.WideColumns*colWidthPx)
	if !strings.Contains(out, wantWidth) {
		t.Errorf("canvas width missing, want %s", wantWidth)
	}
	wantHeight := fmt.Sprintf(`height="%d"`, 4*grid.RowHeightPx)
	if !strings.Contains(out, wantHeight) {
		t.Errorf("canvas height missing, want %s", wantHeight)
	}
	for _, label := range []string{"clock-1 (clock)", "note-1 (note)"} {
		if !strings.Contains(out, label) {
			t.Errorf("label %q missing from output", label)
		}
	}
}

func TestWriteSVGEmptyBoard(t *testing.T) {
	var buf strings.Builder
	WriteSVG(&buf, nil, grid.Narrow)
	out := buf.String()

	if !strings.Contains(out, "<svg") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	wantHeight := fmt.Sprintf(`height="%d"`, grid.RowHeightPx)
	if !strings.Contains(out, wantHeight) {
		t.Errorf("empty board should render a single-row canvas, want %s", wantHeight)
	}
}
