package plane

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/uvsim/internal/convert"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulgeDisk(t *testing.T) *Galaxy {
	t.Helper()
	g, err := NewGalaxy(0.5,
		NamedProfile{Role: "bulge", Profile: &profiles.Sersic{
			EllComps:        convert.EllCompsFrom(0.9, 45.0),
			Intensity:       1.0,
			EffectiveRadius: 0.6,
			SersicIndex:     3.0,
		}},
		NamedProfile{Role: "disk", Profile: &profiles.Exponential{
			EllComps:        convert.EllCompsFrom(0.7, 30.0),
			Intensity:       0.5,
			EffectiveRadius: 1.6,
		}},
	)
	require.NoError(t, err)
	return g
}

func TestNewGalaxyErrors(t *testing.T) {
	sersic := &profiles.Sersic{Intensity: 1, EffectiveRadius: 1, SersicIndex: 1}

	_, err := NewGalaxy(0.5, NamedProfile{Role: "bulge", Profile: sersic}, NamedProfile{Role: "bulge", Profile: sersic})
	assert.ErrorIs(t, err, ErrDuplicateRole)

	_, err = NewGalaxy(0.5, NamedProfile{Profile: sersic})
	assert.ErrorIs(t, err, ErrEmptyRole)

	_, err = NewGalaxy(0.5, NamedProfile{Role: "disk", Profile: &profiles.Exponential{EffectiveRadius: -1}})
	assert.ErrorIs(t, err, profiles.ErrInvalidProfile)

	_, err = New()
	assert.ErrorIs(t, err, ErrNoGalaxies)
}

func TestPlaneImageIsSumOfProfiles(t *testing.T) {
	gal := bulgeDisk(t)
	p, err := New(gal)
	require.NoError(t, err)

	g, err := grid.Square([2]int{11, 11}, 0.2, 1)
	require.NoError(t, err)

	img, err := p.Image2DFrom(g)
	require.NoError(t, err)

	bulge, _ := gal.Profile("bulge")
	disk, _ := gal.Profile("disk")
	b := bulge.Image2D(g.Coordinates())
	d := disk.Image2D(g.Coordinates())
	for i := range img {
		assert.InDelta(t, b[i]+d[i], img[i], 1e-12)
	}

	_, ok := gal.Profile("halo")
	assert.False(t, ok)
	assert.Equal(t, 0.5, p.Redshift())
}

func TestPlaneImageDeterministic(t *testing.T) {
	p, err := New(bulgeDisk(t))
	require.NoError(t, err)
	g, err := grid.Square([2]int{40, 40}, 0.2, 2)
	require.NoError(t, err)

	first, err := p.Image2DFrom(g)
	require.NoError(t, err)
	second, err := p.Image2DFrom(g)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// brightest pixel is next to the centre
	peak := 0
	for i, v := range first {
		if v > first[peak] {
			peak = i
		}
	}
	row, col := peak/40, peak%40
	assert.Contains(t, []int{19, 20}, row)
	assert.Contains(t, []int{19, 20}, col)
}

func TestGalaxyImages(t *testing.T) {
	p, err := New(bulgeDisk(t), bulgeDisk(t))
	require.NoError(t, err)
	g, err := grid.Square([2]int{5, 5}, 0.2, 1)
	require.NoError(t, err)

	images, err := p.GalaxyImages(g)
	require.NoError(t, err)
	require.Len(t, images, 2)

	total, err := p.Image2DFrom(g)
	require.NoError(t, err)
	for i := range total {
		assert.InDelta(t, images[0][i]+images[1][i], total[i], 1e-12)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p, err := New(bulgeDisk(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "plane.json")
	require.NoError(t, p.OutputToJSON(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type": "plane"`)
	assert.Contains(t, string(raw), `"role": "bulge"`)
	assert.Contains(t, string(raw), `"sersic_index": 3`)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Galaxies(), 1)

	roles := []string{}
	for _, np := range loaded.Galaxies()[0].Profiles() {
		roles = append(roles, np.Role)
	}
	assert.Equal(t, []string{"bulge", "disk"}, roles)

	g, err := grid.Square([2]int{16, 16}, 0.2, 1)
	require.NoError(t, err)
	want, err := p.Image2DFrom(g)
	require.NoError(t, err)
	got, err := loaded.Image2DFrom(g)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{"},
		{"wrong type", `{"type": "galaxy", "arguments": {}}`},
		{"unknown profile", `{"type": "plane", "arguments": {"galaxies": [{"type": "galaxy", "arguments": {"redshift": 1, "profiles": [{"role": "x", "type": "moffat", "arguments": {}}]}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
