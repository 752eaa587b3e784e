package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ramp runs dark to bright through xterm-256 colours.
var ramp = []string{"16", "17", "18", "19", "25", "31", "37", "43", "79", "115", "155", "191", "227", "226", "230", "231"}

// HeatMap downsamples row-major data to at most w x h cells and draws one
// coloured block per cell.
func HeatMap(data []float64, shape [2]int, w, h int) string {
	ny, nx := shape[0], shape[1]
	if ny == 0 || nx == 0 || len(data) != ny*nx || w <= 0 || h <= 0 {
		return ""
	}
	w, h = min(w, nx), min(h, ny)

	cells := make([]float64, w*h)
	lo, hi := math.Inf(1), math.Inf(-1)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			v := blockMean(data, nx, r*ny/h, (r+1)*ny/h, c*nx/w, (c+1)*nx/w)
			cells[r*w+c] = v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	span := hi - lo
	if !(span > 0) {
		span = 1
	}

	var b strings.Builder
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			idx := int((cells[r*w+c] - lo) / span * float64(len(ramp)-1))
			idx = max(0, min(len(ramp)-1, idx))
			b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(ramp[idx])).Render(" "))
		}
		if r < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func blockMean(data []float64, nx, r0, r1, c0, c1 int) float64 {
	sum, n := 0.0, 0
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			sum += data[r*nx+c]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
