package viz

import (
	"math"
	"strings"
)

// Braille dots per cell:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 dots.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return c
}

// Set lights the dot at (x, y) in dot coordinates, origin top left. Dots
// outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= pixelMap[y%4][x%2]
}

// Scatter maps points into the canvas with equal scaling on both axes about
// the origin.
func (c *Canvas) Scatter(xs, ys []float64) {
	extent := 0.0
	for i := range xs {
		extent = math.Max(extent, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	if extent == 0 {
		extent = 1
	}
	dotsX, dotsY := float64(c.Width*2-1), float64(c.Height*4-1)
	for i := range xs {
		x := (xs[i]/extent + 1) / 2 * dotsX
		y := (1 - ys[i]/extent) / 2 * dotsY
		c.Set(int(math.Round(x)), int(math.Round(y)))
	}
}

func (c *Canvas) String() string {
	lines := make([]string, c.Height)
	for i, row := range c.cells {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// UVCoverage draws every baseline and its conjugate.
func UVCoverage(uv [][2]float64, w, h int) string {
	xs := make([]float64, 0, 2*len(uv))
	ys := make([]float64, 0, 2*len(uv))
	for _, p := range uv {
		xs = append(xs, p[0], -p[0])
		ys = append(ys, p[1], -p[1])
	}
	c := NewCanvas(w, h)
	c.Scatter(xs, ys)
	return c.String()
}
