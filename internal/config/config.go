package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/uvsim/internal/convert"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/plane"
	"github.com/san-kum/uvsim/internal/profiles"
	"github.com/san-kum/uvsim/internal/simulator"
	"github.com/san-kum/uvsim/internal/validator"
)

const (
	DefaultRoot         = "dataset"
	DefaultDatasetType  = "interferometer"
	DefaultDatasetName  = "light_sersic_exp"
	DefaultShape        = 400
	DefaultPixelScale   = 0.2
	DefaultSubSize      = 1
	DefaultExposureTime = 300.0
	DefaultNoiseSigma   = 1000.0
	DefaultRedshift     = 0.5
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Dataset       DatasetConfig   `yaml:"dataset"`
	Grid          GridConfig      `yaml:"grid"`
	UVWavelengths UVConfig        `yaml:"uv_wavelengths"`
	Simulator     SimulatorConfig `yaml:"simulator"`
	Galaxies      []GalaxyConfig  `yaml:"galaxies" validate:"min=1,dive"`
	Output        OutputConfig    `yaml:"output"`
}

type DatasetConfig struct {
	Root string `yaml:"root" validate:"required"`
	Type string `yaml:"type" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

type GridConfig struct {
	Shape       [2]int  `yaml:"shape" validate:"dive,gt=0"`
	PixelScales float64 `yaml:"pixel_scales" validate:"gt=0"`
	SubSize     int     `yaml:"sub_size" validate:"gte=1"`
}

// UVConfig points at a FITS file of (u, v) pairs in wavelengths.
type UVConfig struct {
	Path string `yaml:"path" validate:"required"`
	HDU  int    `yaml:"hdu" validate:"gte=0"`
}

type SimulatorConfig struct {
	ExposureTime   float64 `yaml:"exposure_time" validate:"gt=0"`
	NoiseSigma     float64 `yaml:"noise_sigma" validate:"gte=0"`
	NoiseSeed      int64   `yaml:"noise_seed" validate:"gte=-1"`
	NoiseIfNoNoise float64 `yaml:"noise_if_add_noise_false" validate:"gte=0"`
	Transformer    string  `yaml:"transformer" validate:"oneof=dft fft"`
}

type GalaxyConfig struct {
	Redshift float64         `yaml:"redshift" validate:"gte=0"`
	Profiles []ProfileConfig `yaml:"profiles" validate:"min=1,dive"`
}

// ProfileConfig gives the ellipticity either as axis ratio and angle
// (degrees counter-clockwise from +x) or as explicit ell comps.
type ProfileConfig struct {
	Role            string      `yaml:"role" validate:"required"`
	Type            string      `yaml:"type" validate:"oneof=sersic exponential dev_vaucouleurs"`
	Centre          [2]float64  `yaml:"centre"`
	AxisRatio       *float64    `yaml:"axis_ratio,omitempty" validate:"omitempty,gt=0,lte=1"`
	Angle           *float64    `yaml:"angle,omitempty"`
	EllComps        *[2]float64 `yaml:"ell_comps,omitempty"`
	Intensity       float64     `yaml:"intensity"`
	EffectiveRadius float64     `yaml:"effective_radius" validate:"gt=0"`
	SersicIndex     float64     `yaml:"sersic_index,omitempty"`
}

type OutputConfig struct {
	Overwrite bool `yaml:"overwrite"`
	Plots     bool `yaml:"plots"`
	PlaneJSON bool `yaml:"plane_json"`
}

func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Root: DefaultRoot,
			Type: DefaultDatasetType,
			Name: DefaultDatasetName,
		},
		Grid: GridConfig{
			Shape:       [2]int{DefaultShape, DefaultShape},
			PixelScales: DefaultPixelScale,
			SubSize:     DefaultSubSize,
		},
		UVWavelengths: UVConfig{Path: filepath.Join(DefaultRoot, DefaultDatasetType, "uv_wavelengths", "sma.fits")},
		Simulator: SimulatorConfig{
			ExposureTime:   DefaultExposureTime,
			NoiseSigma:     DefaultNoiseSigma,
			NoiseSeed:      simulator.RandomSeed,
			NoiseIfNoNoise: simulator.DefaultNoiseIfNoNoise,
			Transformer:    "dft",
		},
		Galaxies: []GalaxyConfig{{
			Redshift: DefaultRedshift,
			Profiles: []ProfileConfig{bulge(), disk()},
		}},
		Output: OutputConfig{Overwrite: true, Plots: true, PlaneJSON: true},
	}
}

func bulge() ProfileConfig {
	return ProfileConfig{
		Role: "bulge", Type: profiles.KindSersic,
		AxisRatio: ptr(0.9), Angle: ptr(45.0),
		Intensity: 1.0, EffectiveRadius: 0.6, SersicIndex: 3.0,
	}
}

func disk() ProfileConfig {
	return ProfileConfig{
		Role: "disk", Type: profiles.KindExponential,
		AxisRatio: ptr(0.7), Angle: ptr(30.0),
		Intensity: 0.5, EffectiveRadius: 1.6,
	}
}

func ptr[T any](v T) *T { return &v }

// Load reads a YAML file over the defaults. Lists such as galaxies are
// replaced, not merged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for i, g := range c.Galaxies {
		for j, p := range g.Profiles {
			if p.EllComps != nil && (p.AxisRatio != nil || p.Angle != nil) {
				return fmt.Errorf("%w: galaxies[%d].profiles[%d]: give ell_comps or axis_ratio/angle, not both", ErrInvalidConfig, i, j)
			}
		}
	}
	if _, err := c.BuildPlane(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DatasetDir is <root>/<type>/<name>.
func (c *Config) DatasetDir() string {
	return filepath.Join(c.Dataset.Root, c.Dataset.Type, c.Dataset.Name)
}

func (c *Config) BuildGrid() (*grid.Grid2D, error) {
	return grid.Square(c.Grid.Shape, c.Grid.PixelScales, c.Grid.SubSize)
}

func (c *Config) BuildPlane() (*plane.Plane, error) {
	galaxies := make([]*plane.Galaxy, 0, len(c.Galaxies))
	for _, g := range c.Galaxies {
		named := make([]plane.NamedProfile, 0, len(g.Profiles))
		for _, p := range g.Profiles {
			lp, err := p.Build()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Role, err)
			}
			named = append(named, plane.NamedProfile{Role: p.Role, Profile: lp})
		}
		gal, err := plane.NewGalaxy(g.Redshift, named...)
		if err != nil {
			return nil, err
		}
		galaxies = append(galaxies, gal)
	}
	return plane.New(galaxies...)
}

// SimulatorConfig pairs the simulator settings with loaded uv wavelengths.
func (c *Config) SimulatorConfig(uv [][2]float64) simulator.Config {
	return simulator.Config{
		UVWavelengths:  uv,
		ExposureTime:   c.Simulator.ExposureTime,
		NoiseSigma:     c.Simulator.NoiseSigma,
		NoiseSeed:      c.Simulator.NoiseSeed,
		NoiseIfNoNoise: c.Simulator.NoiseIfNoNoise,
		Transformer:    c.Simulator.Transformer,
	}
}

// Ell returns the profile's ell comps. A profile with neither form given is
// circular.
func (p ProfileConfig) Ell() convert.EllComps {
	if p.EllComps != nil {
		return convert.EllComps(*p.EllComps)
	}
	q, angle := 1.0, 0.0
	if p.AxisRatio != nil {
		q = *p.AxisRatio
	}
	if p.Angle != nil {
		angle = *p.Angle
	}
	return convert.EllCompsFrom(q, angle)
}

func (p ProfileConfig) Build() (profiles.LightProfile, error) {
	var lp profiles.LightProfile
	switch p.Type {
	case profiles.KindSersic:
		lp = &profiles.Sersic{
			CentreYX: p.Centre, EllComps: p.Ell(),
			Intensity: p.Intensity, EffectiveRadius: p.EffectiveRadius, SersicIndex: p.SersicIndex,
		}
	case profiles.KindExponential:
		lp = &profiles.Exponential{
			CentreYX: p.Centre, EllComps: p.Ell(),
			Intensity: p.Intensity, EffectiveRadius: p.EffectiveRadius,
		}
	case profiles.KindDevVaucouleurs:
		lp = &profiles.DevVaucouleurs{
			CentreYX: p.Centre, EllComps: p.Ell(),
			Intensity: p.Intensity, EffectiveRadius: p.EffectiveRadius,
		}
	default:
		return nil, fmt.Errorf("%w: %s", profiles.ErrUnknownKind, p.Type)
	}
	if err := lp.Validate(); err != nil {
		return nil, err
	}
	return lp, nil
}
