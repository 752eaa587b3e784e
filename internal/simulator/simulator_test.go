package simulator

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/plane"
	"github.com/san-kum/uvsim/internal/profiles"
	"github.com/san-kum/uvsim/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUV = [][2]float64{{1e4, 2e4}, {-5e4, 3e4}, {1.2e5, -8e4}, {2e5, 1e5}}

func testPlane(t *testing.T) *plane.Plane {
	t.Helper()
	gal, err := plane.NewGalaxy(0.5, plane.NamedProfile{
		Role:    "bulge",
		Profile: &profiles.Sersic{Intensity: 1.0, EffectiveRadius: 0.6, SersicIndex: 3.0},
	})
	require.NoError(t, err)
	p, err := plane.New(gal)
	require.NoError(t, err)
	return p
}

func testGrid(t *testing.T) *grid.Grid2D {
	t.Helper()
	g, err := grid.Square([2]int{21, 21}, 0.2, 1)
	require.NoError(t, err)
	return g
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no uv", Config{ExposureTime: 1}},
		{"zero exposure", Config{UVWavelengths: testUV}},
		{"negative sigma", Config{UVWavelengths: testUV, ExposureTime: 1, NoiseSigma: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := New(Config{UVWavelengths: testUV, ExposureTime: 1, Transformer: "nufft"}, nil)
	require.NoError(t, err)
}

func TestViaPlaneWithoutNoise(t *testing.T) {
	sim, err := New(Config{UVWavelengths: testUV, ExposureTime: 300}, nil)
	require.NoError(t, err)

	g := testGrid(t)
	p := testPlane(t)
	d, err := sim.ViaPlaneFrom(context.Background(), p, g)
	require.NoError(t, err)

	img, err := p.Image2DFrom(g)
	require.NoError(t, err)
	want, err := transform.NewDFT(g, testUV).Visibilities(img)
	require.NoError(t, err)

	assert.Equal(t, want, d.Visibilities)
	assert.Len(t, d.NoiseMap, len(testUV))
	for _, n := range d.NoiseMap {
		assert.Equal(t, complex(DefaultNoiseIfNoNoise, DefaultNoiseIfNoNoise), n)
	}
	assert.Equal(t, 300.0, d.ExposureTime)
	assert.Equal(t, transform.KindDFT, d.Transformer().Kind())
}

func TestViaPlaneNoiseIsSeeded(t *testing.T) {
	cfg := Config{UVWavelengths: testUV, ExposureTime: 300, NoiseSigma: 1000, NoiseSeed: 7}
	sim, err := New(cfg, nil)
	require.NoError(t, err)

	first, err := sim.ViaPlaneFrom(context.Background(), testPlane(t), testGrid(t))
	require.NoError(t, err)
	second, err := sim.ViaPlaneFrom(context.Background(), testPlane(t), testGrid(t))
	require.NoError(t, err)
	assert.Equal(t, first.Visibilities, second.Visibilities)

	for _, n := range first.NoiseMap {
		assert.Equal(t, complex(1000, 1000), n)
	}

	cfg.NoiseSeed = 8
	other, err := New(cfg, nil)
	require.NoError(t, err)
	third, err := other.ViaPlaneFrom(context.Background(), testPlane(t), testGrid(t))
	require.NoError(t, err)
	assert.NotEqual(t, first.Visibilities, third.Visibilities)
}

func TestAddComplexGaussianNoiseStatistics(t *testing.T) {
	n := 20000
	noisy := AddComplexGaussianNoise(make([]complex128, n), 2.0, 1)

	var sumRe, sumIm, sqRe, sqIm float64
	for _, v := range noisy {
		sumRe += real(v)
		sumIm += imag(v)
		sqRe += real(v) * real(v)
		sqIm += imag(v) * imag(v)
	}
	assert.InDelta(t, 0.0, sumRe/float64(n), 0.1)
	assert.InDelta(t, 0.0, sumIm/float64(n), 0.1)
	assert.InDelta(t, 2.0, math.Sqrt(sqRe/float64(n)), 0.1)
	assert.InDelta(t, 2.0, math.Sqrt(sqIm/float64(n)), 0.1)
}

func TestViaImageUnknownTransformer(t *testing.T) {
	sim, err := New(Config{UVWavelengths: testUV, ExposureTime: 1, Transformer: "nufft"}, nil)
	require.NoError(t, err)
	g := testGrid(t)
	_, err = sim.ViaImageFrom(context.Background(), make([]float64, g.Pixels()), g)
	assert.ErrorIs(t, err, transform.ErrUnknownTransformer)
}

func TestViaImageCanceled(t *testing.T) {
	sim, err := New(Config{UVWavelengths: testUV, ExposureTime: 1}, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := testGrid(t)
	_, err = sim.ViaImageFrom(ctx, make([]float64, g.Pixels()), g)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnsembleMatchesSeededRuns(t *testing.T) {
	cfg := Config{UVWavelengths: testUV, ExposureTime: 300, NoiseSigma: 1000}
	sim, err := New(cfg, nil)
	require.NoError(t, err)

	runs, err := sim.Ensemble(context.Background(), testPlane(t), testGrid(t), 3, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	for i, run := range runs {
		cfg.NoiseSeed = 10 + int64(i)
		single, err := New(cfg, nil)
		require.NoError(t, err)
		want, err := single.ViaPlaneFrom(context.Background(), testPlane(t), testGrid(t))
		require.NoError(t, err)
		assert.Equal(t, want.Visibilities, run.Visibilities, "realisation %d", i)
	}
	assert.NotEqual(t, runs[0].Visibilities, runs[1].Visibilities)
}

func TestEnsembleRejects(t *testing.T) {
	sim, err := New(Config{UVWavelengths: testUV, ExposureTime: 1}, nil)
	require.NoError(t, err)

	_, err = sim.Ensemble(context.Background(), testPlane(t), testGrid(t), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = sim.Ensemble(context.Background(), testPlane(t), testGrid(t), 2, -1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
