package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/uvsim/internal/fits"
	"github.com/san-kum/uvsim/internal/grid"
)

const (
	VisibilitiesFile  = "visibilities.fits"
	NoiseMapFile      = "noise_map.fits"
	UVWavelengthsFile = "uv_wavelengths.fits"
)

// Paths locates the three FITS files of a dataset.
type Paths struct {
	Visibilities  string
	NoiseMap      string
	UVWavelengths string
}

// PathsIn returns the conventional file names inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Visibilities:  filepath.Join(dir, VisibilitiesFile),
		NoiseMap:      filepath.Join(dir, NoiseMapFile),
		UVWavelengths: filepath.Join(dir, UVWavelengthsFile),
	}
}

func (p Paths) all() []string {
	return []string{p.Visibilities, p.NoiseMap, p.UVWavelengths}
}

// OutputToFITS writes visibilities, noise map and uv wavelengths as (N, 2)
// arrays. Without overwrite, nothing is written if any target exists.
func (d *Interferometer) OutputToFITS(paths Paths, overwrite bool) error {
	if !overwrite {
		for _, path := range paths.all() {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%w: %s", fits.ErrAlreadyExists, path)
			}
		}
	}

	if err := fits.WriteArray(paths.Visibilities, fits.FromComplex(d.Visibilities), overwrite); err != nil {
		return fmt.Errorf("visibilities: %w", err)
	}
	if err := fits.WriteArray(paths.NoiseMap, fits.FromComplex(d.NoiseMap), overwrite); err != nil {
		return fmt.Errorf("noise map: %w", err)
	}
	if err := fits.WriteArray(paths.UVWavelengths, fits.FromPairs(d.UVWavelengths), overwrite); err != nil {
		return fmt.Errorf("uv wavelengths: %w", err)
	}
	return nil
}

// FromFITS loads a dataset written by OutputToFITS.
func FromFITS(paths Paths, g *grid.Grid2D, kind string) (*Interferometer, error) {
	vis, err := fits.ReadComplex(paths.Visibilities, 0)
	if err != nil {
		return nil, fmt.Errorf("visibilities: %w", err)
	}
	noise, err := fits.ReadComplex(paths.NoiseMap, 0)
	if err != nil {
		return nil, fmt.Errorf("noise map: %w", err)
	}
	uv, err := fits.ReadPairs(paths.UVWavelengths, 0)
	if err != nil {
		return nil, fmt.Errorf("uv wavelengths: %w", err)
	}
	return New(vis, noise, uv, g, kind)
}
