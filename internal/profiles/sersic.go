package profiles

import (
	"fmt"
	"math"

	"github.com/san-kum/uvsim/internal/convert"
	"github.com/san-kum/uvsim/internal/grid"
)

const (
	KindSersic         = "sersic"
	KindExponential    = "exponential"
	KindDevVaucouleurs = "dev_vaucouleurs"
)

// Sersic is I(r) = I_e * exp(-b_n * ((r / R_e)^(1/n) - 1)), where R_e is
// the radius enclosing half the light.
type Sersic struct {
	CentreYX        [2]float64       `json:"centre"`
	EllComps        convert.EllComps `json:"ell_comps"`
	Intensity       float64          `json:"intensity"`
	EffectiveRadius float64          `json:"effective_radius"`
	SersicIndex     float64          `json:"sersic_index"`
}

func (s *Sersic) Kind() string { return KindSersic }

func (s *Sersic) Centre() grid.Coord {
	return grid.Coord{Y: s.CentreYX[0], X: s.CentreYX[1]}
}

func (s *Sersic) Validate() error {
	if !(s.EffectiveRadius > 0) {
		return fmt.Errorf("%w: %s effective radius must be positive, got %g", ErrInvalidProfile, s.Kind(), s.EffectiveRadius)
	}
	if !(s.SersicIndex > 0) {
		return fmt.Errorf("%w: %s sersic index must be positive, got %g", ErrInvalidProfile, s.Kind(), s.SersicIndex)
	}
	if math.IsNaN(s.Intensity) || math.IsInf(s.Intensity, 0) {
		return fmt.Errorf("%w: %s intensity must be finite", ErrInvalidProfile, s.Kind())
	}
	for _, v := range []float64{s.CentreYX[0], s.CentreYX[1], s.EllComps[0], s.EllComps[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s geometry must be finite", ErrInvalidProfile, s.Kind())
		}
	}
	return nil
}

// SersicConstant is b_n, the series approximation of the constant that makes
// R_e the half-light radius.
func SersicConstant(n float64) float64 {
	return 2*n - 1.0/3.0 + 4.0/(405.0*n) + 46.0/(25515.0*n*n) +
		131.0/(1148175.0*n*n*n) - 2194697.0/(30690717750.0*n*n*n*n)
}

// IntensityAt evaluates the profile at an eccentric radius r.
func (s *Sersic) IntensityAt(r float64) float64 {
	b := SersicConstant(s.SersicIndex)
	return s.Intensity * math.Exp(-b*(math.Pow(r/s.EffectiveRadius, 1.0/s.SersicIndex)-1))
}

func (s *Sersic) Image2D(coords []grid.Coord) []float64 {
	geom := newElliptical(s.CentreYX, s.EllComps)
	b := SersicConstant(s.SersicIndex)
	invN := 1.0 / s.SersicIndex
	return geom.image(coords, func(r float64) float64 {
		return s.Intensity * math.Exp(-b*(math.Pow(r/s.EffectiveRadius, invN)-1))
	})
}

// Exponential is a Sersic profile with n = 1.
type Exponential struct {
	CentreYX        [2]float64       `json:"centre"`
	EllComps        convert.EllComps `json:"ell_comps"`
	Intensity       float64          `json:"intensity"`
	EffectiveRadius float64          `json:"effective_radius"`
}

func (e *Exponential) sersic() *Sersic {
	return &Sersic{CentreYX: e.CentreYX, EllComps: e.EllComps, Intensity: e.Intensity, EffectiveRadius: e.EffectiveRadius, SersicIndex: 1.0}
}

func (e *Exponential) Kind() string                          { return KindExponential }
func (e *Exponential) Centre() grid.Coord                    { return e.sersic().Centre() }
func (e *Exponential) Image2D(coords []grid.Coord) []float64 { return e.sersic().Image2D(coords) }

func (e *Exponential) Validate() error {
	if err := e.sersic().Validate(); err != nil {
		return fmt.Errorf("%s: %w", e.Kind(), err)
	}
	return nil
}

// DevVaucouleurs is a Sersic profile with n = 4.
type DevVaucouleurs struct {
	CentreYX        [2]float64       `json:"centre"`
	EllComps        convert.EllComps `json:"ell_comps"`
	Intensity       float64          `json:"intensity"`
	EffectiveRadius float64          `json:"effective_radius"`
}

func (d *DevVaucouleurs) sersic() *Sersic {
	return &Sersic{CentreYX: d.CentreYX, EllComps: d.EllComps, Intensity: d.Intensity, EffectiveRadius: d.EffectiveRadius, SersicIndex: 4.0}
}

func (d *DevVaucouleurs) Kind() string                          { return KindDevVaucouleurs }
func (d *DevVaucouleurs) Centre() grid.Coord                    { return d.sersic().Centre() }
func (d *DevVaucouleurs) Image2D(coords []grid.Coord) []float64 { return d.sersic().Image2D(coords) }

func (d *DevVaucouleurs) Validate() error {
	if err := d.sersic().Validate(); err != nil {
		return fmt.Errorf("%s: %w", d.Kind(), err)
	}
	return nil
}
