// Package uvgen synthesises uv coverage for an earth-rotation synthesis
// observation of an array of antennas.
package uvgen

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("uvgen: invalid configuration")

const (
	degToRad   = math.Pi / 180
	hourToRad  = math.Pi / 12
	goldenFrac = 0.6180339887498949
)

// Config describes the array and the track it observes. Angles are in
// degrees, hour angles in hours and lengths in metres.
type Config struct {
	Antennas     int     `yaml:"antennas"`
	RadiusMetres float64 `yaml:"radius_metres"`
	Wavelength   float64 `yaml:"wavelength_metres"`
	Latitude     float64 `yaml:"latitude"`
	Declination  float64 `yaml:"declination"`
	HourStart    float64 `yaml:"hour_angle_start"`
	HourEnd      float64 `yaml:"hour_angle_end"`
	Integrations int     `yaml:"integrations"`
}

// SMA is a compact eight antenna array observing at 1.3 mm.
func SMA() Config {
	return Config{
		Antennas:     8,
		RadiusMetres: 35,
		Wavelength:   1.3e-3,
		Latitude:     19.82,
		Declination:  30,
		HourStart:    -3,
		HourEnd:      3,
		Integrations: 7,
	}
}

// ALMA is an extended array with many more baselines than SMA.
func ALMA() Config {
	return Config{
		Antennas:     24,
		RadiusMetres: 250,
		Wavelength:   1.3e-3,
		Latitude:     -23.03,
		Declination:  -30,
		HourStart:    -2,
		HourEnd:      2,
		Integrations: 5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Antennas < 2:
		return fmt.Errorf("%w: need at least 2 antennas, got %d", ErrInvalidConfig, c.Antennas)
	case !(c.RadiusMetres > 0):
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidConfig, c.RadiusMetres)
	case !(c.Wavelength > 0):
		return fmt.Errorf("%w: wavelength must be positive, got %g", ErrInvalidConfig, c.Wavelength)
	case c.Integrations < 1:
		return fmt.Errorf("%w: need at least 1 integration, got %d", ErrInvalidConfig, c.Integrations)
	case c.HourEnd < c.HourStart:
		return fmt.Errorf("%w: hour angle range [%g, %g] is reversed", ErrInvalidConfig, c.HourStart, c.HourEnd)
	case math.Abs(c.Latitude) > 90 || math.Abs(c.Declination) > 90:
		return fmt.Errorf("%w: latitude and declination must lie in [-90, 90]", ErrInvalidConfig)
	}
	return nil
}

// Baselines returns the number of antenna pairs.
func (c Config) Baselines() int { return c.Antennas * (c.Antennas - 1) / 2 }

// Positions returns east, north antenna offsets in metres. Antennas sit on a
// ring whose radius varies so that no two baselines are redundant.
func (c Config) Positions() [][2]float64 {
	pos := make([][2]float64, c.Antennas)
	for k := range pos {
		frac := math.Mod(float64(k+1)*goldenFrac, 1)
		r := c.RadiusMetres * (0.6 + 0.4*frac)
		theta := 2 * math.Pi * float64(k) / float64(c.Antennas)
		pos[k] = [2]float64{r * math.Cos(theta), r * math.Sin(theta)}
	}
	return pos
}

// Generate returns (u, v) pairs in wavelengths, ordered by integration and
// then by antenna pair (i < j).
func Generate(c Config) ([][2]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	pos := c.Positions()
	lat := c.Latitude * degToRad
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)

	// equatorial XYZ for a flat array: X = -N sin(lat), Y = E, Z = N cos(lat)
	type xyz struct{ x, y, z float64 }
	var baselines []xyz
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			e := pos[j][0] - pos[i][0]
			n := pos[j][1] - pos[i][1]
			baselines = append(baselines, xyz{-n * sinLat, e, n * cosLat})
		}
	}

	dec := c.Declination * degToRad
	sinDec, cosDec := math.Sin(dec), math.Cos(dec)

	uv := make([][2]float64, 0, len(baselines)*c.Integrations)
	for t := 0; t < c.Integrations; t++ {
		h := c.HourStart
		if c.Integrations > 1 {
			h += (c.HourEnd - c.HourStart) * float64(t) / float64(c.Integrations-1)
		}
		sinH, cosH := math.Sin(h*hourToRad), math.Cos(h*hourToRad)
		for _, b := range baselines {
			u := (sinH*b.x + cosH*b.y) / c.Wavelength
			v := (-sinDec*cosH*b.x + sinDec*sinH*b.y + cosDec*b.z) / c.Wavelength
			uv = append(uv, [2]float64{u, v})
		}
	}
	return uv, nil
}
