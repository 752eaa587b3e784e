package transform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/uvsim/internal/grid"
)

const (
	KindDFT = "dft"
	KindFFT = "fft"
)

var (
	ErrUnknownTransformer = errors.New("transform: unknown transformer")
	ErrShape              = errors.New("transform: input size does not match transformer")
	ErrNoBaselines        = errors.New("transform: no uv wavelengths")
)

type Transformer interface {
	Kind() string
	// Visibilities transforms a binned image on the transformer's grid.
	Visibilities(image []float64) ([]complex128, error)
	// Image returns the dirty image of a set of visibilities.
	Image(vis []complex128) ([]float64, error)
}

var factories = map[string]func(*grid.Grid2D, [][2]float64) Transformer{
	KindDFT: func(g *grid.Grid2D, uv [][2]float64) Transformer { return NewDFT(g, uv) },
	KindFFT: func(g *grid.Grid2D, uv [][2]float64) Transformer { return NewFFT(g, uv, DefaultPadding) },
}

// New builds the transformer of the given kind.
func New(kind string, g *grid.Grid2D, uv [][2]float64) (Transformer, error) {
	fn, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownTransformer, kind, Kinds())
	}
	if len(uv) == 0 {
		return nil, ErrNoBaselines
	}
	return fn(g, uv), nil
}

func Kinds() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkLen(kind string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s expects %d values, got %d", ErrShape, kind, want, got)
	}
	return nil
}
