// Package grid provides the uniform 2D sampling lattice that light profiles
// are rendered on and interferometer transforms are evaluated over.
//
// Coordinates are (y, x) in arcseconds. Row 0 is the top of the image, so y
// decreases with row index while x increases with column index. Pixels are
// stored row-major in flat slices.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ArcsecToRadians converts arcseconds to radians.
const ArcsecToRadians = math.Pi / (180.0 * 3600.0)

var ErrInvalidGrid = errors.New("grid: invalid grid")

// Coord is a (y, x) position.
type Coord struct {
	Y, X float64
}

type Grid2D struct {
	shape       [2]int
	pixelScales [2]float64
	subSize     int
}

// Uniform builds a grid of shape (rows, cols) with the given pixel scales in
// arcseconds, each pixel split into subSize x subSize sub-pixels.
func Uniform(shape [2]int, pixelScales [2]float64, subSize int) (*Grid2D, error) {
	if shape[0] <= 0 || shape[1] <= 0 {
		return nil, fmt.Errorf("%w: shape %v must be positive", ErrInvalidGrid, shape)
	}
	if !(pixelScales[0] > 0) || !(pixelScales[1] > 0) {
		return nil, fmt.Errorf("%w: pixel scales %v must be positive", ErrInvalidGrid, pixelScales)
	}
	if subSize < 1 {
		return nil, fmt.Errorf("%w: sub size %d must be at least 1", ErrInvalidGrid, subSize)
	}
	return &Grid2D{shape: shape, pixelScales: pixelScales, subSize: subSize}, nil
}

// Square is Uniform with a single pixel scale for both axes.
func Square(shape [2]int, pixelScale float64, subSize int) (*Grid2D, error) {
	return Uniform(shape, [2]float64{pixelScale, pixelScale}, subSize)
}

func (g *Grid2D) ShapeNative() [2]int     { return g.shape }
func (g *Grid2D) PixelScales() [2]float64 { return g.pixelScales }
func (g *Grid2D) SubSize() int            { return g.subSize }
func (g *Grid2D) Pixels() int             { return g.shape[0] * g.shape[1] }
func (g *Grid2D) SubPixels() int          { return g.Pixels() * g.subSize * g.subSize }

// centre returns the fractional (row, col) index of the grid centre.
func (g *Grid2D) centre() (float64, float64) {
	return float64(g.shape[0]-1) / 2.0, float64(g.shape[1]-1) / 2.0
}

// Coordinates returns the pixel centres in row-major order.
func (g *Grid2D) Coordinates() []Coord {
	cy, cx := g.centre()
	out := make([]Coord, 0, g.Pixels())
	for i := 0; i < g.shape[0]; i++ {
		for j := 0; j < g.shape[1]; j++ {
			out = append(out, Coord{
				Y: (cy-float64(i))*g.pixelScales[0],
				X: (float64(j)-cx)*g.pixelScales[1],
			})
		}
	}
	return out
}

// SubCoordinates returns the sub-pixel centres. The sub-pixels of each pixel
// are contiguous, ordered row-major within the pixel, and pixels follow the
// same order as Coordinates.
func (g *Grid2D) SubCoordinates() []Coord {
	if g.subSize == 1 {
		return g.Coordinates()
	}
	n := g.subSize
	sy := g.pixelScales[0] / float64(n)
	sx := g.pixelScales[1] / float64(n)
	half := float64(n-1) / 2.0

	out := make([]Coord, 0, g.SubPixels())
	for _, c := range g.Coordinates() {
		for a := 0; a < n; a++ {
			for b := 0; b < n; b++ {
				out = append(out, Coord{
					Y: c.Y + (half-float64(a))*sy,
					X: c.X + (float64(b)-half)*sx,
				})
			}
		}
	}
	return out
}

// Bin averages sub-pixel values back to one value per pixel.
func (g *Grid2D) Bin(sub []float64) ([]float64, error) {
	if len(sub) != g.SubPixels() {
		return nil, fmt.Errorf("%w: binning %d values on a grid of %d sub-pixels", ErrInvalidGrid, len(sub), g.SubPixels())
	}
	per := g.subSize * g.subSize
	if per == 1 {
		out := make([]float64, len(sub))
		copy(out, sub)
		return out, nil
	}
	out := make([]float64, g.Pixels())
	for p := range out {
		sum := 0.0
		for _, v := range sub[p*per : (p+1)*per] {
			sum += v
		}
		out[p] = sum / float64(per)
	}
	return out, nil
}

// InRadians returns the pixel centres converted to radians.
func (g *Grid2D) InRadians() []Coord {
	coords := g.Coordinates()
	for i := range coords {
		coords[i].Y *= ArcsecToRadians
		coords[i].X *= ArcsecToRadians
	}
	return coords
}

// Extent returns [xmin, xmax, ymin, ymax] of the pixel edges in arcseconds.
func (g *Grid2D) Extent() [4]float64 {
	hy := float64(g.shape[0]) * g.pixelScales[0] / 2
	hx := float64(g.shape[1]) * g.pixelScales[1] / 2
	return [4]float64{-hx, hx, -hy, hy}
}

// Index returns the flat index of pixel (row, col).
func (g *Grid2D) Index(row, col int) int {
	return row*g.shape[1] + col
}

func (g *Grid2D) String() string {
	return fmt.Sprintf("Grid2D(shape=%dx%d, pixel_scales=(%g, %g), sub_size=%d)",
		g.shape[0], g.shape[1], g.pixelScales[0], g.pixelScales[1], g.subSize)
}
