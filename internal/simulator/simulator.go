// Package simulator produces interferometer datasets from a source scene by
// rendering it on a grid, transforming it to visibilities and adding noise.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/uvsim/internal/dataset"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/plane"
	"github.com/san-kum/uvsim/internal/transform"
)

// RandomSeed asks for a time-based noise seed.
const RandomSeed int64 = -1

// DefaultNoiseIfNoNoise fills the noise map when no noise is added.
const DefaultNoiseIfNoNoise = 0.1

var ErrInvalidConfig = errors.New("simulator: invalid configuration")

type Config struct {
	UVWavelengths [][2]float64
	ExposureTime  float64
	// NoiseSigma is the standard deviation of the Gaussian noise added to the
	// real and imaginary part of every visibility. Zero disables noise.
	NoiseSigma     float64
	NoiseSeed      int64
	NoiseIfNoNoise float64
	Transformer    string
}

func (c Config) Validate() error {
	if len(c.UVWavelengths) == 0 {
		return fmt.Errorf("%w: no uv wavelengths", ErrInvalidConfig)
	}
	if !(c.ExposureTime > 0) {
		return fmt.Errorf("%w: exposure time must be positive, got %g", ErrInvalidConfig, c.ExposureTime)
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("%w: noise sigma must not be negative, got %g", ErrInvalidConfig, c.NoiseSigma)
	}
	if c.NoiseIfNoNoise < 0 {
		return fmt.Errorf("%w: noise map fill must not be negative, got %g", ErrInvalidConfig, c.NoiseIfNoNoise)
	}
	return nil
}

type Simulator struct {
	cfg Config
	log logrus.FieldLogger
}

// New validates cfg. A nil logger uses the logrus standard logger.
func New(cfg Config, log logrus.FieldLogger) (*Simulator, error) {
	if cfg.Transformer == "" {
		cfg.Transformer = transform.KindDFT
	}
	if cfg.NoiseIfNoNoise == 0 {
		cfg.NoiseIfNoNoise = DefaultNoiseIfNoNoise
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Simulator{cfg: cfg, log: log}, nil
}

func (s *Simulator) Config() Config { return s.cfg }

// ViaPlaneFrom renders p on g and simulates its observation.
func (s *Simulator) ViaPlaneFrom(ctx context.Context, p *plane.Plane, g *grid.Grid2D) (*dataset.Interferometer, error) {
	img, err := p.Image2DFrom(g)
	if err != nil {
		return nil, err
	}
	return s.ViaImageFrom(ctx, img, g)
}

// ViaImageFrom simulates the observation of a binned image on g.
func (s *Simulator) ViaImageFrom(ctx context.Context, image []float64, g *grid.Grid2D) (*dataset.Interferometer, error) {
	vis, err := s.visibilities(ctx, image, g)
	if err != nil {
		return nil, err
	}
	return s.observe(vis, g, s.noiseSeed())
}

func (s *Simulator) visibilities(ctx context.Context, image []float64, g *grid.Grid2D) ([]complex128, error) {
	tr, err := transform.New(s.cfg.Transformer, g, s.cfg.UVWavelengths)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	vis, err := tr.Visibilities(image)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"transformer":  tr.Kind(),
		"visibilities": len(vis),
		"pixels":       len(image),
		"elapsed":      time.Since(start).Round(time.Millisecond),
	}).Debug("transformed image to visibilities")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vis, nil
}

// observe adds noise to clean visibilities and builds the dataset.
func (s *Simulator) observe(clean []complex128, g *grid.Grid2D, seed int64) (*dataset.Interferometer, error) {
	vis := append([]complex128(nil), clean...)
	fill := s.cfg.NoiseIfNoNoise
	if s.cfg.NoiseSigma > 0 {
		vis = AddComplexGaussianNoise(clean, s.cfg.NoiseSigma, seed)
		fill = s.cfg.NoiseSigma
		s.log.WithFields(logrus.Fields{"sigma": s.cfg.NoiseSigma, "seed": seed}).Debug("added visibility noise")
	}
	noise := make([]complex128, len(vis))
	for i := range noise {
		noise[i] = complex(fill, fill)
	}

	d, err := dataset.New(vis, noise, s.cfg.UVWavelengths, g, s.cfg.Transformer)
	if err != nil {
		return nil, err
	}
	d.ExposureTime = s.cfg.ExposureTime
	return d, nil
}

func (s *Simulator) noiseSeed() int64 {
	if s.cfg.NoiseSeed == RandomSeed {
		return time.Now().UnixNano()
	}
	return s.cfg.NoiseSeed
}

// AddComplexGaussianNoise returns a copy of vis with independent N(0, sigma)
// noise added to the real and imaginary part of each value.
func AddComplexGaussianNoise(vis []complex128, sigma float64, seed int64) []complex128 {
	normal := distuv.Normal{
		Mu:    0,
		Sigma: sigma,
		Src:   rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15),
	}
	out := make([]complex128, len(vis))
	for i, v := range vis {
		out[i] = v + complex(normal.Rand(), normal.Rand())
	}
	return out
}
