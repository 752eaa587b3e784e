package plot

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/plane"
)

const (
	ImageFile        = "image.png"
	SubplotPlaneFile = "subplot_plane.png"
)

// PlanePlotter writes figures of a scene rendered on a grid into Dir.
type PlanePlotter struct {
	Plane *plane.Plane
	Grid  *grid.Grid2D
	Dir   string
}

// Figures writes image.png and subplot_plane.png and returns their paths.
func (p *PlanePlotter) Figures() ([]string, error) {
	img, err := p.Plane.Image2DFrom(p.Grid)
	if err != nil {
		return nil, err
	}
	shape := p.Grid.ShapeNative()

	full, err := HeatMap(img, shape, "Image")
	if err != nil {
		return nil, err
	}
	imagePath := filepath.Join(p.Dir, ImageFile)
	if err := SavePNG(imagePath, full); err != nil {
		return nil, err
	}

	logged, err := HeatMap(log10(img), shape, "Log10 Image")
	if err != nil {
		return nil, err
	}
	xs, cut := p.centralRow(img)
	profile, err := Line(Axes{Title: "Central Row", XLabel: "x (arcsec)", YLabel: "intensity"}, xs, cut)
	if err != nil {
		return nil, err
	}
	panels := []image.Image{full, logged, profile}

	galaxies, err := p.Plane.GalaxyImages(p.Grid)
	if err != nil {
		return nil, err
	}
	for i, g := range galaxies {
		panel, err := HeatMap(g, shape, fmt.Sprintf("Galaxy %d", i))
		if err != nil {
			return nil, err
		}
		panels = append(panels, panel)
	}

	sub, err := Subplot("Plane", 3, panels...)
	if err != nil {
		return nil, err
	}
	subPath := filepath.Join(p.Dir, SubplotPlaneFile)
	if err := SavePNG(subPath, sub); err != nil {
		return nil, err
	}
	return []string{imagePath, subPath}, nil
}

func (p *PlanePlotter) centralRow(img []float64) (xs, values []float64) {
	shape := p.Grid.ShapeNative()
	row := shape[0] / 2
	coords := p.Grid.Coordinates()[row*shape[1] : (row+1)*shape[1]]
	xs = make([]float64, len(coords))
	for i, c := range coords {
		xs[i] = c.X
	}
	return xs, img[row*shape[1] : (row+1)*shape[1]]
}

func log10(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v > 0 {
			out[i] = math.Log10(v)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
