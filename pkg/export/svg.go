// Package export renders layout snapshots for inspection outside the TUI.
package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"dashgrid/pkg/grid"
)

// Pixel scale of one grid column in the exported image.
const colWidthPx = 40

// WriteSVG draws the positioned items of one breakpoint as labeled
// rectangles. Useful for eyeballing a derivation result without running the
// dashboard.
func WriteSVG(w io.Writer, items []grid.PositionedItem, b grid.Breakpoint) {
	cols := grid.Columns(b)
	maxY := 0
	for _, it := range items {
		if end := it.Y + it.H; end > maxY {
			maxY = end
		}
	}

	width := cols * colWidthPx
	height := maxY * grid.RowHeightPx
	if height == 0 {
		height = grid.RowHeightPx
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#1e1f29")

	for _, it := range items {
		x := it.X * colWidthPx
		y := it.Y * grid.RowHeightPx
		cw := it.W*colWidthPx - grid.MarginPx
		ch := it.H*grid.RowHeightPx - grid.MarginPx
		if cw < 1 {
			cw = 1
		}
		if ch < 1 {
			ch = 1
		}
		canvas.Rect(x+grid.MarginPx/2, y+grid.MarginPx/2, cw, ch,
			"fill:#44475a;stroke:#bd93f9;stroke-width:2")
		canvas.Text(x+grid.MarginPx+4, y+grid.MarginPx+16,
			fmt.Sprintf("%s (%s)", it.ID, it.Type),
			"fill:#f8f8f2;font-family:monospace;font-size:12px")
	}
	canvas.End()
}
