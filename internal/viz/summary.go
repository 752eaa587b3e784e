package viz

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/uvsim/internal/dataset"
	"github.com/san-kum/uvsim/internal/storage"
)

// AmplitudeGraph plots amplitudes ordered by baseline length.
func AmplitudeGraph(d *dataset.Interferometer, width, height int) string {
	if d.Len() == 0 {
		return Subtle.Render("no visibilities")
	}
	dist := d.UVDistances()
	amps := d.Amplitudes()
	order := make([]int, len(dist))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return dist[order[a]] < dist[order[b]] })

	sorted := make([]float64, len(order))
	for i, k := range order {
		sorted[i] = amps[k]
	}
	return asciigraph.Plot(sorted,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("amplitude (Jy) by increasing uv distance"),
	)
}

// Summary renders metadata and an amplitude plot side by side.
func Summary(meta *storage.Metadata, d *dataset.Interferometer) string {
	rows := []Metric{
		{"id", meta.ID},
		{"dataset", meta.Type + "/" + meta.Name},
		{"created", meta.Timestamp.Format("2006-01-02 15:04:05")},
		{"grid", fmt.Sprintf("%dx%d @ %g\"", meta.Shape[0], meta.Shape[1], meta.PixelScales)},
		{"transformer", meta.Transformer},
		{"visibilities", strconv.Itoa(meta.Visibilities)},
		{"exposure", fmt.Sprintf("%g s", meta.ExposureTime)},
		{"noise sigma", fmt.Sprintf("%g", meta.NoiseSigma)},
		{"seed", strconv.FormatInt(meta.Seed, 10)},
		{"uv file", meta.UVPath},
	}
	for _, key := range sortedKeys(meta.Stats) {
		rows = append(rows, Metric{key, fmt.Sprintf("%.4g", meta.Stats[key])})
	}

	info := Panel.Render(Title.Render("Dataset") + "\n\n" + Metrics(rows))
	graph := Panel.Render(Title.Render("Amplitudes") + "\n\n" + AmplitudeGraph(d, 60, 12))
	coverage := Panel.Render(Title.Render("UV Coverage") + "\n\n" + UVCoverage(d.UVWavelengths, 30, 12))
	return lipgloss.JoinVertical(lipgloss.Left,
		info,
		lipgloss.JoinHorizontal(lipgloss.Top, graph, coverage),
	)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
