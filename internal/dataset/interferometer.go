// Package dataset holds simulated interferometer observations: visibilities,
// their noise map and the uv baselines they were sampled at.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/transform"
)

var ErrMismatch = errors.New("dataset: visibilities, noise map and uv wavelengths differ in length")

// Interferometer is a set of visibilities with per-visibility complex noise,
// tied to the real-space grid its dirty images are evaluated on.
type Interferometer struct {
	Visibilities  []complex128
	NoiseMap      []complex128
	UVWavelengths [][2]float64
	ExposureTime  float64

	grid        *grid.Grid2D
	transformer transform.Transformer
}

// New builds a dataset and the transformer of the given kind used for its
// dirty images.
func New(vis, noise []complex128, uv [][2]float64, g *grid.Grid2D, kind string) (*Interferometer, error) {
	if len(vis) != len(noise) || len(vis) != len(uv) {
		return nil, fmt.Errorf("%w: %d visibilities, %d noise values, %d baselines", ErrMismatch, len(vis), len(noise), len(uv))
	}
	tr, err := transform.New(kind, g, uv)
	if err != nil {
		return nil, err
	}
	return &Interferometer{Visibilities: vis, NoiseMap: noise, UVWavelengths: uv, grid: g, transformer: tr}, nil
}

func (d *Interferometer) Grid() *grid.Grid2D                 { return d.grid }
func (d *Interferometer) Transformer() transform.Transformer { return d.transformer }
func (d *Interferometer) Len() int                           { return len(d.Visibilities) }

func (d *Interferometer) DirtyImage() ([]float64, error) {
	return d.transformer.Image(d.Visibilities)
}

func (d *Interferometer) DirtyNoiseMap() ([]float64, error) {
	return d.transformer.Image(d.NoiseMap)
}

// SignalToNoiseMap divides real and imaginary parts separately. A zero noise
// component yields zero.
func (d *Interferometer) SignalToNoiseMap() []complex128 {
	out := make([]complex128, len(d.Visibilities))
	for i, v := range d.Visibilities {
		n := d.NoiseMap[i]
		out[i] = complex(safeDiv(real(v), real(n)), safeDiv(imag(v), imag(n)))
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func (d *Interferometer) DirtySignalToNoiseMap() ([]float64, error) {
	return d.transformer.Image(d.SignalToNoiseMap())
}

// UVDistances is the baseline length of every visibility in wavelengths.
func (d *Interferometer) UVDistances() []float64 {
	out := make([]float64, len(d.UVWavelengths))
	for i, uv := range d.UVWavelengths {
		out[i] = math.Hypot(uv[0], uv[1])
	}
	return out
}

func (d *Interferometer) Amplitudes() []float64 {
	out := make([]float64, len(d.Visibilities))
	for i, v := range d.Visibilities {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// Phases returns visibility phases in degrees.
func (d *Interferometer) Phases() []float64 {
	out := make([]float64, len(d.Visibilities))
	for i, v := range d.Visibilities {
		out[i] = cmplx.Phase(v) * 180 / math.Pi
	}
	return out
}
