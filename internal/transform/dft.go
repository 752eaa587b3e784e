package transform

import (
	"math"

	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/parallel"
)

const twoPi = 2 * math.Pi

// DFT evaluates the Fourier sum directly for every baseline.
type DFT struct {
	coords []grid.Coord
	uv     [][2]float64
}

func NewDFT(g *grid.Grid2D, uv [][2]float64) *DFT {
	return &DFT{coords: g.InRadians(), uv: uv}
}

func (d *DFT) Kind() string { return KindDFT }

func (d *DFT) Visibilities(image []float64) ([]complex128, error) {
	if err := checkLen(d.Kind(), len(image), len(d.coords)); err != nil {
		return nil, err
	}
	vis := make([]complex128, len(d.uv))
	parallel.For(len(d.uv), 1, func(start, end int) {
		for k := start; k < end; k++ {
			u, v := d.uv[k][0], d.uv[k][1]
			var re, im float64
			for i, c := range d.coords {
				if image[i] == 0 {
					continue
				}
				s, co := math.Sincos(-twoPi * (c.X*u + c.Y*v))
				re += image[i] * co
				im += image[i] * s
			}
			vis[k] = complex(re, im)
		}
	})
	return vis, nil
}

func (d *DFT) Image(vis []complex128) ([]float64, error) {
	if err := checkLen(d.Kind(), len(vis), len(d.uv)); err != nil {
		return nil, err
	}
	img := make([]float64, len(d.coords))
	parallel.For(len(d.coords), 256, func(start, end int) {
		for i := start; i < end; i++ {
			c := d.coords[i]
			sum := 0.0
			for k, uv := range d.uv {
				s, co := math.Sincos(twoPi * (c.X*uv[0] + c.Y*uv[1]))
				sum += real(vis[k])*co - imag(vis[k])*s
			}
			img[i] = sum
		}
	})
	return img, nil
}
