package plane

import (
	"errors"

	"github.com/san-kum/uvsim/internal/grid"
)

var ErrNoGalaxies = errors.New("plane: no galaxies")

// Plane is the source scene: a collection of galaxies rendered together.
type Plane struct {
	galaxies []*Galaxy
}

func New(galaxies ...*Galaxy) (*Plane, error) {
	if len(galaxies) == 0 {
		return nil, ErrNoGalaxies
	}
	p := &Plane{galaxies: make([]*Galaxy, len(galaxies))}
	copy(p.galaxies, galaxies)
	return p, nil
}

func (p *Plane) Galaxies() []*Galaxy {
	out := make([]*Galaxy, len(p.galaxies))
	copy(out, p.galaxies)
	return out
}

// Redshift is the redshift of the first galaxy; galaxies in one plane share it.
func (p *Plane) Redshift() float64 {
	return p.galaxies[0].Redshift
}

// Image2DFrom sums every galaxy's binned image on g.
func (p *Plane) Image2DFrom(g *grid.Grid2D) ([]float64, error) {
	coords := g.SubCoordinates()
	sub := make([]float64, len(coords))
	for _, gal := range p.galaxies {
		for i, v := range gal.SubImage2DFrom(coords) {
			sub[i] += v
		}
	}
	return g.Bin(sub)
}

// GalaxyImages returns one binned image per galaxy, in order.
func (p *Plane) GalaxyImages(g *grid.Grid2D) ([][]float64, error) {
	out := make([][]float64, 0, len(p.galaxies))
	for _, gal := range p.galaxies {
		img, err := gal.Image2DFrom(g)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
