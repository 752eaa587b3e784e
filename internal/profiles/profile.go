package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/uvsim/internal/convert"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/parallel"
)

var (
	ErrInvalidProfile = errors.New("profiles: invalid profile parameters")
	ErrUnknownKind    = errors.New("profiles: unknown profile kind")
)

// minChunk is the smallest number of coordinates handed to one worker.
const minChunk = 4096

type LightProfile interface {
	Kind() string
	Centre() grid.Coord
	Image2D(coords []grid.Coord) []float64
	Validate() error
}

// elliptical is the shared geometry of every profile.
type elliptical struct {
	centre grid.Coord
	q      float64
	cos    float64
	sin    float64
}

func newElliptical(centre [2]float64, ell convert.EllComps) elliptical {
	q, _ := convert.AxisRatioAndAngleFrom(ell)
	phi := ell.Radians()
	return elliptical{
		centre: grid.Coord{Y: centre[0], X: centre[1]},
		q:      q,
		cos:    math.Cos(phi),
		sin:    math.Sin(phi),
	}
}

// eccentricRadius is sqrt(q) times the elliptical radius of c in the frame
// aligned with the profile's major axis.
func (e elliptical) eccentricRadius(c grid.Coord) float64 {
	dy := c.Y - e.centre.Y
	dx := c.X - e.centre.X
	xr := dx*e.cos + dy*e.sin
	yr := -dx*e.sin + dy*e.cos
	return math.Sqrt(e.q) * math.Sqrt(xr*xr+(yr/e.q)*(yr/e.q))
}

func (e elliptical) image(coords []grid.Coord, radial func(r float64) float64) []float64 {
	out := make([]float64, len(coords))
	parallel.For(len(coords), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = radial(e.eccentricRadius(coords[i]))
		}
	})
	return out
}

var factories = map[string]func() LightProfile{
	KindSersic:         func() LightProfile { return &Sersic{} },
	KindExponential:    func() LightProfile { return &Exponential{} },
	KindDevVaucouleurs: func() LightProfile { return &DevVaucouleurs{} },
}

// Decode rebuilds a profile of the given kind from its JSON parameters.
func Decode(kind string, raw json.RawMessage) (LightProfile, error) {
	fn, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	p := fn()
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func Kinds() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
