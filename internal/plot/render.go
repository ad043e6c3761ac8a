package plot

import (
	"math"
	"strconv"
	"strings"
)

const (
	minWidth  = 20
	minHeight = 5

	markerRune  = '●'
	segmentRune = '·'
)

// Chart describes how points are drawn.
type Chart struct {
	Kind   Kind
	Width  int
	Height int
	// XLabel and YLabel, when set, add a title line naming the axes.
	XLabel string
	YLabel string
}

// Render draws points as a chart of the given kind inside width x height
// cells.
func Render(points []Point, kind Kind, width, height int) string {
	return Chart{Kind: kind, Width: width, Height: height}.Render(points)
}

// Render draws points. The output has exactly Height lines (clamped to a
// minimum size).
func (c Chart) Render(points []Point) string {
	width := max(c.Width, minWidth)
	height := max(c.Height, minHeight)

	var lines []string
	if c.XLabel != "" || c.YLabel != "" {
		lines = append(lines, c.YLabel+" by "+c.XLabel)
		height--
	}

	if len(points) == 0 {
		lines = append(lines, "(no data)")
		for len(lines) < max(c.Height, minHeight) {
			lines = append(lines, "")
		}
		return strings.Join(lines, "\n")
	}

	minX, maxX, minY, maxY := bounds(points)
	top, bottom := formatNumber(maxY), formatNumber(minY)
	margin := max(len(top), len(bottom))

	// two rows for the x axis and its labels, two columns for the y axis
	plotH := height - 2
	plotW := width - margin - 2
	if plotW < 2 {
		plotW = 2
	}

	grid := newGrid(plotW, plotH)
	cells := make([][2]int, len(points))
	for i, p := range points {
		cells[i] = [2]int{
			scale(p.X, minX, maxX, plotW-1),
			plotH - 1 - scale(p.Y, minY, maxY, plotH-1),
		}
	}

	if c.Kind != KindScatter {
		for i := 1; i < len(cells); i++ {
			grid.line(cells[i-1], cells[i], segmentRune)
		}
	}
	for _, cell := range cells {
		grid.set(cell[0], cell[1], markerRune)
	}

	for row := 0; row < plotH; row++ {
		label, tick := "", " │"
		switch row {
		case 0:
			label, tick = top, " ┤"
		case plotH - 1:
			label, tick = bottom, " ┤"
		}
		lines = append(lines, padLeft(label, margin)+tick+strings.TrimRight(string(grid.cells[row]), " "))
	}

	lines = append(lines, strings.Repeat(" ", margin)+" └"+strings.Repeat("─", plotW))

	left, right := formatNumber(minX), formatNumber(maxX)
	gap := plotW - len(left) - len(right)
	xLabels := left
	if gap > 0 && minX != maxX {
		xLabels += strings.Repeat(" ", gap) + right
	}
	lines = append(lines, strings.Repeat(" ", margin+2)+xLabels)

	return strings.Join(lines, "\n")
}

func bounds(points []Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

// scale maps v from [lo, hi] onto [0, n]. A zero range maps to the middle.
func scale(v, lo, hi float64, n int) int {
	if hi == lo {
		return n / 2
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(n)))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}

type grid struct {
	cells [][]rune
}

func newGrid(w, h int) *grid {
	g := &grid{cells: make([][]rune, h)}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (g *grid) set(x, y int, r rune) {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return
	}
	g.cells[y][x] = r
}

// line draws a segment with Bresenham's algorithm.
func (g *grid) line(from, to [2]int, r rune) {
	x0, y0 := from[0], from[1]
	x1, y1 := to[0], to[1]
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		g.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
