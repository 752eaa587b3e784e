package transform

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/parallel"
)

// DefaultPadding is the zero-padding factor applied to each image axis before
// the FFT; larger factors sample the uv plane more finely.
const DefaultPadding = 2

// FFT grids each baseline to the nearest cell of the padded image's discrete
// Fourier transform. Visibilities are exact at cell centres and approximate
// elsewhere.
type FFT struct {
	shape   [2]int
	padded  [2]int
	cells   []int
	phases  []complex128
	adjoint *DFT
}

func NewFFT(g *grid.Grid2D, uv [][2]float64, padding int) *FFT {
	if padding < 1 {
		padding = 1
	}
	shape := g.ShapeNative()
	scales := g.PixelScales()
	ny, nx := shape[0]*padding, shape[1]*padding
	dy := scales[0] * grid.ArcsecToRadians
	dx := scales[1] * grid.ArcsecToRadians
	cy, cx := float64(shape[0]-1)/2, float64(shape[1]-1)/2

	f := &FFT{
		shape:   shape,
		padded:  [2]int{ny, nx},
		cells:   make([]int, len(uv)),
		phases:  make([]complex128, len(uv)),
		adjoint: NewDFT(g, uv),
	}
	for k, b := range uv {
		// rows run towards negative y, hence the sign flip on v
		l := int(math.Round(b[0] * float64(nx) * dx))
		m := int(math.Round(-b[1] * float64(ny) * dy))
		f.cells[k] = wrap(m, ny)*nx + wrap(l, nx)
		f.phases[k] = cmplx.Exp(complex(0, twoPi*(cx*float64(l)/float64(nx)+cy*float64(m)/float64(ny))))
	}
	return f
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (f *FFT) Kind() string { return KindFFT }

func (f *FFT) Visibilities(image []float64) ([]complex128, error) {
	if err := checkLen(f.Kind(), len(image), f.shape[0]*f.shape[1]); err != nil {
		return nil, err
	}
	freq := f.spectrum(image)
	vis := make([]complex128, len(f.cells))
	for k, cell := range f.cells {
		vis[k] = freq[cell] * f.phases[k]
	}
	return vis, nil
}

// spectrum is the 2D DFT of the image placed in the top-left corner of the
// padded array, stored row-major.
func (f *FFT) spectrum(image []float64) []complex128 {
	ny, nx := f.padded[0], f.padded[1]
	freq := make([]complex128, ny*nx)
	for i := 0; i < f.shape[0]; i++ {
		for j := 0; j < f.shape[1]; j++ {
			freq[i*nx+j] = complex(image[i*f.shape[1]+j], 0)
		}
	}

	// only the first shape[0] rows are non-zero
	parallel.For(f.shape[0], 16, func(start, end int) {
		fft := fourier.NewCmplxFFT(nx)
		for i := start; i < end; i++ {
			row := freq[i*nx : (i+1)*nx]
			fft.Coefficients(row, row)
		}
	})

	parallel.For(nx, 16, func(start, end int) {
		fft := fourier.NewCmplxFFT(ny)
		col := make([]complex128, ny)
		for j := start; j < end; j++ {
			for i := 0; i < ny; i++ {
				col[i] = freq[i*nx+j]
			}
			fft.Coefficients(col, col)
			for i := 0; i < ny; i++ {
				freq[i*nx+j] = col[i]
			}
		}
	})
	return freq
}

func (f *FFT) Image(vis []complex128) ([]float64, error) {
	return f.adjoint.Image(vis)
}
