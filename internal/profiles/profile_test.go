package profiles

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/san-kum/uvsim/internal/convert"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSersicConstant(t *testing.T) {
	// b_1 ~ 1.678 and b_4 ~ 7.669 are the textbook values
	assert.InDelta(t, 1.678, SersicConstant(1.0), 1e-3)
	assert.InDelta(t, 7.669, SersicConstant(4.0), 1e-3)
}

func TestSersicAtEffectiveRadius(t *testing.T) {
	s := &Sersic{Intensity: 2.0, EffectiveRadius: 0.6, SersicIndex: 3.0}
	assert.InDelta(t, 2.0, s.IntensityAt(0.6), 1e-12)
	assert.Greater(t, s.IntensityAt(0.0), s.IntensityAt(0.6))
	assert.Less(t, s.IntensityAt(1.2), s.IntensityAt(0.6))
}

func TestCircularImageMatchesRadialProfile(t *testing.T) {
	s := &Sersic{Intensity: 1.0, EffectiveRadius: 1.0, SersicIndex: 2.0}
	coords := []grid.Coord{{Y: 0, X: 1.0}, {Y: 1.0, X: 0}, {Y: -0.6, X: 0.8}}
	img := s.Image2D(coords)
	for i := range img {
		assert.InDelta(t, s.IntensityAt(1.0), img[i], 1e-12)
	}
}

func TestEllipticalOrientation(t *testing.T) {
	// major axis along 45 degrees: points on that diagonal are brighter
	s := &Sersic{EllComps: convert.EllCompsFrom(0.5, 45.0), Intensity: 1.0, EffectiveRadius: 1.0, SersicIndex: 1.0}
	d := 1.0 / math.Sqrt2
	img := s.Image2D([]grid.Coord{{Y: d, X: d}, {Y: d, X: -d}})
	assert.Greater(t, img[0], img[1])
}

func TestExponentialIsSersicOne(t *testing.T) {
	ell := convert.EllCompsFrom(0.7, 30.0)
	e := &Exponential{CentreYX: [2]float64{0.1, -0.2}, EllComps: ell, Intensity: 0.5, EffectiveRadius: 1.6}
	s := &Sersic{CentreYX: [2]float64{0.1, -0.2}, EllComps: ell, Intensity: 0.5, EffectiveRadius: 1.6, SersicIndex: 1.0}

	g, err := grid.Square([2]int{9, 9}, 0.3, 1)
	require.NoError(t, err)
	assert.Equal(t, s.Image2D(g.Coordinates()), e.Image2D(g.Coordinates()))
	assert.Equal(t, grid.Coord{Y: 0.1, X: -0.2}, e.Centre())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile LightProfile
		wantErr bool
	}{
		{"valid sersic", &Sersic{Intensity: 1, EffectiveRadius: 1, SersicIndex: 2}, false},
		{"zero radius", &Sersic{Intensity: 1, EffectiveRadius: 0, SersicIndex: 2}, true},
		{"negative index", &Sersic{Intensity: 1, EffectiveRadius: 1, SersicIndex: -1}, true},
		{"nan intensity", &Sersic{Intensity: math.NaN(), EffectiveRadius: 1, SersicIndex: 1}, true},
		{"exponential negative radius", &Exponential{Intensity: 1, EffectiveRadius: -1}, true},
		{"dev vaucouleurs valid", &DevVaucouleurs{Intensity: 1, EffectiveRadius: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProfile)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	want := &Sersic{CentreYX: [2]float64{0, 0}, EllComps: convert.EllCompsFrom(0.9, 45.0), Intensity: 1.0, EffectiveRadius: 0.6, SersicIndex: 3.0}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := Decode(KindSersic, raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Decode("gaussian", raw)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode(KindExponential, []byte(`{"intensity": 1, "effective_radius": 0}`))
	assert.ErrorIs(t, err, ErrInvalidProfile)

	assert.Equal(t, []string{KindDevVaucouleurs, KindExponential, KindSersic}, Kinds())
}
