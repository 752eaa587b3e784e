package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformInvalid(t *testing.T) {
	tests := []struct {
		name   string
		shape  [2]int
		scales [2]float64
		sub    int
	}{
		{"zero rows", [2]int{0, 4}, [2]float64{0.1, 0.1}, 1},
		{"negative cols", [2]int{4, -1}, [2]float64{0.1, 0.1}, 1},
		{"zero pixel scale", [2]int{4, 4}, [2]float64{0, 0.1}, 1},
		{"zero sub size", [2]int{4, 4}, [2]float64{0.1, 0.1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Uniform(tt.shape, tt.scales, tt.sub)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGrid))
		})
	}
}

func TestCoordinates(t *testing.T) {
	g, err := Square([2]int{2, 3}, 1.0, 1)
	require.NoError(t, err)

	coords := g.Coordinates()
	require.Len(t, coords, 6)

	// top-left pixel sits at positive y, negative x
	assert.Equal(t, Coord{Y: 0.5, X: -1.0}, coords[0])
	assert.Equal(t, Coord{Y: 0.5, X: 0.0}, coords[1])
	assert.Equal(t, Coord{Y: -0.5, X: 1.0}, coords[5])
}

func TestSubCoordinatesAndBin(t *testing.T) {
	g, err := Square([2]int{2, 2}, 1.0, 2)
	require.NoError(t, err)

	sub := g.SubCoordinates()
	require.Len(t, sub, 16)

	// the four sub-pixels of pixel 0 surround its centre (0.5, -0.5)
	assert.InDelta(t, 0.75, sub[0].Y, 1e-12)
	assert.InDelta(t, -0.75, sub[0].X, 1e-12)
	assert.InDelta(t, 0.25, sub[3].Y, 1e-12)
	assert.InDelta(t, -0.25, sub[3].X, 1e-12)

	values := make([]float64, len(sub))
	for i := range values {
		values[i] = float64(i)
	}
	binned, err := g.Bin(values)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 5.5, 9.5, 13.5}, binned)

	_, err = g.Bin(values[:3])
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestInRadians(t *testing.T) {
	g, err := Square([2]int{1, 3}, 3600.0, 1)
	require.NoError(t, err)

	rad := g.InRadians()
	assert.InDelta(t, -3600.0*ArcsecToRadians, rad[0].X, 1e-15)
	assert.InDelta(t, 0.0, rad[1].X, 1e-15)
}

func TestExtent(t *testing.T) {
	g, err := Uniform([2]int{4, 2}, [2]float64{0.5, 1.0}, 1)
	require.NoError(t, err)
	assert.Equal(t, [4]float64{-1, 1, -1, 1}, g.Extent())
	assert.Equal(t, 8, g.Pixels())
	assert.Equal(t, 5, g.Index(2, 1))
}
