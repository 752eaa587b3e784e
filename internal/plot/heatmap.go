package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	ErrShape = errors.New("plot: data does not match shape")
	ErrEmpty = errors.New("plot: nothing to plot")
)

const (
	titleHeight = 20
	barGap      = 6
	barWidth    = 16
	labelWidth  = 72
	minSide     = 256
)

var (
	background = color.RGBA{255, 255, 255, 255}
	masked     = color.RGBA{200, 200, 200, 255}
	ink        = color.RGBA{0, 0, 0, 255}
)

// HeatMap draws row-major data of the given (rows, cols) shape. Row 0 is at
// the top. Non-finite values are drawn grey and do not affect the colour
// scale.
func HeatMap(data []float64, shape [2]int, title string) (*image.RGBA, error) {
	ny, nx := shape[0], shape[1]
	if ny <= 0 || nx <= 0 || len(data) != ny*nx {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}

	scale := 1
	if side := max(ny, nx); side < minSide {
		scale = (minSide + side - 1) / side
	}
	lo, hi := finiteRange(data)

	w := nx*scale + barGap + barWidth + labelWidth
	h := ny*scale + titleHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			c := colourAt(data[i*nx+j], lo, hi)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(j*scale+dx, titleHeight+i*scale+dy, c)
				}
			}
		}
	}

	x0 := nx*scale + barGap
	rows := ny * scale
	for y := 0; y < rows; y++ {
		v := hi - (hi-lo)*float64(y)/float64(max(rows-1, 1))
		c := colourAt(v, lo, hi)
		for x := x0; x < x0+barWidth; x++ {
			img.SetRGBA(x, titleHeight+y, c)
		}
	}

	label(img, 4, 14, title)
	label(img, x0+barWidth+4, titleHeight+12, tick(hi))
	label(img, x0+barWidth+4, h-4, tick(lo))
	return img, nil
}

func finiteRange(data []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func colourAt(v, lo, hi float64) color.RGBA {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return masked
	}
	c := chart.Viridis(math.Max(lo, math.Min(hi, v)), lo, hi)
	return color.RGBA{c.R, c.G, c.B, 255}
}

func tick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func label(img draw.Image, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
