package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/uvsim/internal/dataset"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/transform"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := &Metadata{
		Type:         "interferometer",
		Name:         "light_sersic_exp",
		Seed:         42,
		Transformer:  "dft",
		Visibilities: 190,
		Stats:        map[string]float64{"max_amplitude": 1.5},
	}
	path, err := st.SaveMetadata(meta)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(st.DatasetDir("interferometer", "light_sersic_exp"), MetadataFile), path)

	_, err = uuid.Parse(meta.ID)
	assert.NoError(t, err)
	assert.False(t, meta.Timestamp.IsZero())

	loaded, err := st.Load("interferometer", "light_sersic_exp")
	require.NoError(t, err)
	assert.Equal(t, meta.ID, loaded.ID)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, 190, loaded.Visibilities)
	assert.Equal(t, 1.5, loaded.Stats["max_amplitude"])
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	for _, name := range []string{"a", "b"} {
		_, err := st.SaveMetadata(&Metadata{Type: "interferometer", Name: name})
		require.NoError(t, err)
	}
	require.NoError(t, os.MkdirAll(st.DatasetDir("interferometer", "uv_wavelengths"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].Name)
	assert.Equal(t, "b", runs[1].Name)
}

func TestLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("interferometer", "missing")
	assert.ErrorIs(t, err, ErrNoMetadata)
}

func TestTableRoundTrip(t *testing.T) {
	g, err := grid.Square([2]int{4, 4}, 0.5, 1)
	require.NoError(t, err)
	d, err := dataset.New(
		[]complex128{1 + 2i, -0.5 + 0.25i},
		[]complex128{0.1 + 0.1i, 0.1 + 0.1i},
		[][2]float64{{1e4, -2e4}, {3.5e4, 0}},
		g, transform.KindDFT,
	)
	require.NoError(t, err)

	st := New(t.TempDir())
	_, err = st.SaveTable("interferometer", "table", d)
	require.NoError(t, err)

	rows, err := st.LoadTable("interferometer", "table")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1e4, -2e4, 1, 2, 0.1, 0.1},
		{3.5e4, 0, -0.5, 0.25, 0.1, 0.1},
	}, rows)
}
