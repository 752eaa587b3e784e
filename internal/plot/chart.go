package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 480
	chartHeight = 360
)

// Axes labels a chart.
type Axes struct {
	Title  string
	XLabel string
	YLabel string
}

// Scatter draws unconnected points.
func Scatter(axes Axes, xs, ys []float64) (image.Image, error) {
	return render(axes, xs, ys, chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    2,
		DotColor:    chart.ColorBlue,
	})
}

// Line draws points joined in order.
func Line(axes Axes, xs, ys []float64) (image.Image, error) {
	return render(axes, xs, ys, chart.Style{
		StrokeColor: chart.ColorBlue,
		StrokeWidth: 2,
	})
}

func render(axes Axes, xs, ys []float64, style chart.Style) (image.Image, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: %q has no points", ErrEmpty, axes.Title)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrShape, len(xs), len(ys))
	}

	graph := chart.Chart{
		Title:  axes.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:           axes.XLabel,
			Style:          chart.Style{FontSize: 8.0},
			Range:          paddedRange(xs),
			ValueFormatter: formatValue,
		},
		YAxis: chart.YAxis{
			Name:           axes.YLabel,
			Style:          chart.Style{FontSize: 8.0},
			Range:          paddedRange(ys),
			ValueFormatter: formatValue,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("plot: render %q: %w", axes.Title, err)
	}
	return png.Decode(&buf)
}

// go-chart refuses to draw a zero width range.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := finiteRange(values)
	pad := 0.05 * (hi - lo)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func formatValue(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	if f != 0 && (math.Abs(f) >= 1e4 || math.Abs(f) < 1e-2) {
		return fmt.Sprintf("%.1e", f)
	}
	return fmt.Sprintf("%.2f", f)
}
