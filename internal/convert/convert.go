// Package convert maps between the intuitive elliptical geometry of a
// profile (axis ratio and position angle) and the elliptical components
// used to parameterise it.
//
// Angles are in degrees, measured counter-clockwise from the positive x
// axis. The axis ratio is b/a, the semi-minor over the semi-major axis.
package convert

import "math"

// maxFac caps the ellipticity magnitude so the recovered axis ratio stays
// strictly positive.
const maxFac = 0.999

// EllComps are the elliptical components (e0, e1) of a profile.
// e0 carries the sin(2*phi) term and e1 the cos(2*phi) term.
type EllComps [2]float64

func EllCompsFrom(axisRatio, angle float64) EllComps {
	phi := angle * math.Pi / 180.0
	fac := (1 - axisRatio) / (1 + axisRatio)
	return EllComps{fac * math.Sin(2*phi), fac * math.Cos(2*phi)}
}

// AxisRatioAndAngleFrom inverts EllCompsFrom. The angle is returned in
// (-90, 90].
func AxisRatioAndAngleFrom(e EllComps) (axisRatio, angle float64) {
	angle = math.Atan2(e[0], e[1]) / 2 * 180.0 / math.Pi
	fac := math.Hypot(e[0], e[1])
	if fac > maxFac {
		fac = maxFac
	}
	axisRatio = (1 - fac) / (1 + fac)
	return axisRatio, angle
}

func AxisRatioFrom(e EllComps) float64 {
	q, _ := AxisRatioAndAngleFrom(e)
	return q
}

func AngleFrom(e EllComps) float64 {
	_, a := AxisRatioAndAngleFrom(e)
	return a
}

// Radians converts the angle of e to radians.
func (e EllComps) Radians() float64 {
	return AngleFrom(e) * math.Pi / 180.0
}
