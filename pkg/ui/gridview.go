package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"dashgrid/pkg/grid"
)

// linesPerRow is how many terminal lines one grid row occupies.
const linesPerRow = 2

// borderSet is the character set used to draw one widget box.
type borderSet struct {
	tl, tr, bl, br, h, v rune
}

var (
	normalBorder   = borderSet{'╭', '╮', '╰', '╯', '─', '│'}
	selectedBorder = borderSet{'┏', '┓', '┗', '┛', '━', '┃'}
	draggingBorder = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
)

// canvas is a rune buffer the grid renders into. Widgets are drawn with
// explicit coordinates; later draws overwrite earlier ones, matching the
// painter's order of the item slice.
type canvas struct {
	cells [][]rune
	width int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width}
	c.grow(height)
	return c
}

func (c *canvas) grow(height int) {
	for len(c.cells) < height {
		row := make([]rune, c.width)
		for i := range row {
			row[i] = ' '
		}
		c.cells = append(c.cells, row)
	}
}

func (c *canvas) set(x, y int, r rune) {
	if y < 0 || x < 0 || x >= c.width {
		return
	}
	c.grow(y + 1)
	c.cells[y][x] = r
}

func (c *canvas) text(x, y int, s string) {
	for _, r := range s {
		c.set(x, y, r)
		x += runewidth.RuneWidth(r)
	}
}

// drawBox draws a bordered box with a truncated title on its top line.
func (c *canvas) drawBox(x, y, w, h int, title string, b borderSet) {
	if w < 2 || h < 2 {
		return
	}
	right := x + w - 1
	bottom := y + h - 1

	c.set(x, y, b.tl)
	c.set(right, y, b.tr)
	c.set(x, bottom, b.bl)
	c.set(right, bottom, b.br)
	for i := x + 1; i < right; i++ {
		c.set(i, y, b.h)
		c.set(i, bottom, b.h)
	}
	for j := y + 1; j < bottom; j++ {
		c.set(x, j, b.v)
		c.set(right, j, b.v)
		for i := x + 1; i < right; i++ {
			c.set(i, j, ' ')
		}
	}

	if title != "" && w > 4 {
		label := truncate.StringWithTail(title, uint(w-4), "…")
		c.text(x+2, y, label)
	}
}

// render produces the visible window of a grid: scrollRows grid rows are
// scrolled off the top, viewLines terminal lines are shown.
func renderGrid(items []grid.PositionedItem, b grid.Breakpoint, termWidth int, selectedID, draggingID string, scrollRows, viewLines int) string {
	cols := grid.Columns(b)
	cellW := termWidth / cols
	if cellW < 3 {
		cellW = 3
	}

	maxY := 1
	for _, it := range items {
		if end := it.Y + it.H; end > maxY {
			maxY = end
		}
	}
	c := newCanvas(cols*cellW, maxY*linesPerRow)

	for _, it := range items {
		border := normalBorder
		switch it.ID {
		case draggingID:
			border = draggingBorder
		case selectedID:
			border = selectedBorder
		}
		c.drawBox(it.X*cellW, it.Y*linesPerRow, it.W*cellW, it.H*linesPerRow, it.Type+" "+it.ID, border)
	}

	start := scrollRows * linesPerRow
	if start < 0 {
		start = 0
	}
	if start >= len(c.cells) {
		start = maxInt(0, len(c.cells)-1)
	}
	end := start + viewLines
	if viewLines <= 0 || end > len(c.cells) {
		end = len(c.cells)
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(strings.TrimRight(string(c.cells[i]), " "))
		if i < end-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
