package plot

import (
	"image"
	"path/filepath"

	"github.com/san-kum/uvsim/internal/dataset"
)

const (
	VisibilitiesFile          = "visibilities.png"
	UVWavelengthsFile         = "uv_wavelengths.png"
	AmplitudesFile            = "amplitudes_vs_uv_distances.png"
	PhasesFile                = "phases_vs_uv_distances.png"
	DirtyImageFile            = "dirty_image.png"
	DirtyNoiseMapFile         = "dirty_noise_map.png"
	DirtySignalToNoiseFile    = "dirty_signal_to_noise_map.png"
	SubplotInterferometerFile = "subplot_interferometer.png"
	SubplotDirtyImagesFile    = "subplot_dirty_images.png"
)

// InterferometerPlotter writes diagnostics of a dataset into Dir.
type InterferometerPlotter struct {
	Dataset *dataset.Interferometer
	Dir     string
}

type figure struct {
	name string
	img  image.Image
}

// Figures renders every single-panel figure and both subplots, returning the
// written paths.
func (p *InterferometerPlotter) Figures() ([]string, error) {
	d := p.Dataset

	vis, err := Scatter(Axes{Title: "Visibilities", XLabel: "V.real (Jy)", YLabel: "V.imag (Jy)"},
		realParts(d.Visibilities), imagParts(d.Visibilities))
	if err != nil {
		return nil, err
	}
	us, vs := kiloLambda(d.UVWavelengths)
	uv, err := Scatter(Axes{Title: "UV-Wavelengths", XLabel: "U (k lambda)", YLabel: "V (k lambda)"}, us, vs)
	if err != nil {
		return nil, err
	}
	dist := scale(d.UVDistances(), 1e-3)
	amp, err := Scatter(Axes{Title: "Amplitudes vs UV-Distances", XLabel: "k lambda", YLabel: "Jy"}, dist, d.Amplitudes())
	if err != nil {
		return nil, err
	}
	phase, err := Scatter(Axes{Title: "Phases vs UV-Distances", XLabel: "k lambda", YLabel: "deg"}, dist, d.Phases())
	if err != nil {
		return nil, err
	}

	dirty, noise, snr, err := p.dirtyImages()
	if err != nil {
		return nil, err
	}

	interferometer, err := Subplot("Interferometer", 3, vis, uv, amp, phase, dirty, snr)
	if err != nil {
		return nil, err
	}
	dirtyImages, err := Subplot("Dirty Images", 3, dirty, noise, snr)
	if err != nil {
		return nil, err
	}

	figures := []figure{
		{VisibilitiesFile, vis},
		{UVWavelengthsFile, uv},
		{AmplitudesFile, amp},
		{PhasesFile, phase},
		{DirtyImageFile, dirty},
		{DirtyNoiseMapFile, noise},
		{DirtySignalToNoiseFile, snr},
		{SubplotInterferometerFile, interferometer},
		{SubplotDirtyImagesFile, dirtyImages},
	}
	paths := make([]string, 0, len(figures))
	for _, f := range figures {
		path := filepath.Join(p.Dir, f.name)
		if err := SavePNG(path, f.img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (p *InterferometerPlotter) dirtyImages() (dirty, noise, snr image.Image, err error) {
	d := p.Dataset
	shape := d.Grid().ShapeNative()

	maps := []struct {
		title string
		build func() ([]float64, error)
		out   *image.Image
	}{
		{"Dirty Image", d.DirtyImage, &dirty},
		{"Dirty Noise Map", d.DirtyNoiseMap, &noise},
		{"Dirty Signal-To-Noise Map", d.DirtySignalToNoiseMap, &snr},
	}
	for _, m := range maps {
		values, err := m.build()
		if err != nil {
			return nil, nil, nil, err
		}
		img, err := HeatMap(values, shape, m.title)
		if err != nil {
			return nil, nil, nil, err
		}
		*m.out = img
	}
	return dirty, noise, snr, nil
}

func realParts(values []complex128) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = real(v)
	}
	return out
}

func imagParts(values []complex128) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = imag(v)
	}
	return out
}

func kiloLambda(uv [][2]float64) (us, vs []float64) {
	us = make([]float64, len(uv))
	vs = make([]float64, len(uv))
	for i, p := range uv {
		us[i] = p[0] * 1e-3
		vs[i] = p[1] * 1e-3
	}
	return us, vs
}

func scale(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}
