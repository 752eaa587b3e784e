// Package pipeline runs a configured simulation from path setup to the files
// on disk.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/uvsim/internal/config"
	"github.com/san-kum/uvsim/internal/dataset"
	"github.com/san-kum/uvsim/internal/fits"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/plane"
	"github.com/san-kum/uvsim/internal/plot"
	"github.com/san-kum/uvsim/internal/simulator"
	"github.com/san-kum/uvsim/internal/storage"
)

const PlaneFile = "plane.json"

type Result struct {
	Dir      string
	Dataset  *dataset.Interferometer
	Plane    *plane.Plane
	Files    []string
	Metadata *storage.Metadata
}

// Run executes every step in order and stops at the first failure.
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	start := time.Now()

	st, err := prepare(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := st.sim.ViaPlaneFrom(ctx, st.plane, st.grid)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	log.WithFields(logrus.Fields{"step": "simulate", "visibilities": d.Len()}).Info("simulated dataset")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := st.write(cfg, d, log)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"dir":     res.Dir,
		"files":   len(res.Files),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("simulation complete")
	return res, nil
}

// RunEnsemble writes n noise realisations of the configured scene, each as
// its own dataset named <name>_seed<seed>. Seeds start at the configured
// noise seed, or at a time based one when that is -1.
func RunEnsemble(ctx context.Context, cfg *config.Config, n int, log logrus.FieldLogger) ([]*Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	seedStart := cfg.Simulator.NoiseSeed
	if seedStart == simulator.RandomSeed {
		seedStart = time.Now().Unix()
	}

	st, err := prepare(cfg, log)
	if err != nil {
		return nil, err
	}
	datasets, err := st.sim.Ensemble(ctx, st.plane, st.grid, n, seedStart)
	if err != nil {
		return nil, fmt.Errorf("simulate ensemble: %w", err)
	}
	log.WithFields(logrus.Fields{"step": "simulate", "realisations": n, "seed_start": seedStart}).Info("simulated ensemble")

	results := make([]*Result, 0, n)
	for i, d := range datasets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		member := *cfg
		member.Simulator.NoiseSeed = seedStart + int64(i)
		member.Dataset.Name = fmt.Sprintf("%s_seed%d", cfg.Dataset.Name, member.Simulator.NoiseSeed)
		st.dir = st.store.DatasetDir(member.Dataset.Type, member.Dataset.Name)

		res, err := st.write(&member, d, log)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// setup holds the products of the steps before simulation.
type setup struct {
	store *storage.Store
	dir   string
	grid  *grid.Grid2D
	sim   *simulator.Simulator
	plane *plane.Plane
}

func prepare(cfg *config.Config, log logrus.FieldLogger) (*setup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := storage.New(cfg.Dataset.Root)
	dir := store.DatasetDir(cfg.Dataset.Type, cfg.Dataset.Name)
	log.WithFields(logrus.Fields{"step": "paths", "dir": dir}).Info("dataset path")

	g, err := cfg.BuildGrid()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"step": "grid", "grid": g.String()}).Info("built grid")

	uv, err := fits.ReadPairs(cfg.UVWavelengths.Path, cfg.UVWavelengths.HDU)
	if err != nil {
		return nil, fmt.Errorf("load uv wavelengths: %w", err)
	}
	log.WithFields(logrus.Fields{
		"step":      "uv_wavelengths",
		"path":      cfg.UVWavelengths.Path,
		"baselines": len(uv),
	}).Info("loaded uv wavelengths")

	sim, err := simulator.New(cfg.SimulatorConfig(uv), log)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"step":          "simulator",
		"exposure_time": cfg.Simulator.ExposureTime,
		"noise_sigma":   cfg.Simulator.NoiseSigma,
		"transformer":   cfg.Simulator.Transformer,
	}).Info("configured simulator")

	p, err := cfg.BuildPlane()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"step": "scene", "galaxies": len(p.Galaxies())}).Info("built plane")

	return &setup{store: store, dir: dir, grid: g, sim: sim, plane: p}, nil
}

// write stores the dataset, its figures and its metadata.
func (st *setup) write(cfg *config.Config, d *dataset.Interferometer, log logrus.FieldLogger) (*Result, error) {
	files, err := output(cfg, st.store, st.dir, st.plane, d, log)
	if err != nil {
		return nil, err
	}

	meta := &storage.Metadata{
		Type:         cfg.Dataset.Type,
		Name:         cfg.Dataset.Name,
		Transformer:  cfg.Simulator.Transformer,
		Seed:         cfg.Simulator.NoiseSeed,
		ExposureTime: cfg.Simulator.ExposureTime,
		NoiseSigma:   cfg.Simulator.NoiseSigma,
		Shape:        cfg.Grid.Shape,
		PixelScales:  cfg.Grid.PixelScales,
		SubSize:      cfg.Grid.SubSize,
		UVPath:       cfg.UVWavelengths.Path,
		Visibilities: d.Len(),
		Files:        relative(st.dir, files),
		Stats:        Stats(d),
		Config:       cfg,
	}
	metaPath, err := st.store.SaveMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	files = append(files, metaPath)

	return &Result{Dir: st.dir, Dataset: d, Plane: st.plane, Files: files, Metadata: meta}, nil
}

func output(cfg *config.Config, store *storage.Store, dir string, p *plane.Plane, d *dataset.Interferometer, log logrus.FieldLogger) ([]string, error) {
	paths := dataset.PathsIn(dir)
	if err := d.OutputToFITS(paths, cfg.Output.Overwrite); err != nil {
		return nil, err
	}
	files := []string{paths.Visibilities, paths.NoiseMap, paths.UVWavelengths}
	log.WithFields(logrus.Fields{"step": "output", "overwrite": cfg.Output.Overwrite}).Info("wrote fits")

	table, err := store.SaveTable(cfg.Dataset.Type, cfg.Dataset.Name, d)
	if err != nil {
		return nil, fmt.Errorf("save table: %w", err)
	}
	files = append(files, table)

	if cfg.Output.Plots {
		planeFigures, err := (&plot.PlanePlotter{Plane: p, Grid: d.Grid(), Dir: dir}).Figures()
		if err != nil {
			return nil, fmt.Errorf("plot plane: %w", err)
		}
		dataFigures, err := (&plot.InterferometerPlotter{Dataset: d, Dir: dir}).Figures()
		if err != nil {
			return nil, fmt.Errorf("plot dataset: %w", err)
		}
		files = append(files, planeFigures...)
		files = append(files, dataFigures...)
		log.WithFields(logrus.Fields{"step": "output", "figures": len(planeFigures) + len(dataFigures)}).Info("wrote plots")
	}

	if cfg.Output.PlaneJSON {
		path := filepath.Join(dir, PlaneFile)
		if err := p.OutputToJSON(path); err != nil {
			return nil, fmt.Errorf("save plane: %w", err)
		}
		files = append(files, path)
		log.WithFields(logrus.Fields{"step": "output", "path": path}).Info("wrote plane description")
	}
	return files, nil
}

// Stats summarises amplitudes and baseline lengths.
func Stats(d *dataset.Interferometer) map[string]float64 {
	if d.Len() == 0 {
		return map[string]float64{}
	}
	amps := d.Amplitudes()
	dist := d.UVDistances()
	n := float64(d.Len())
	return map[string]float64{
		"max_amplitude":   floats.Max(amps),
		"mean_amplitude":  floats.Sum(amps) / n,
		"min_uv_distance": floats.Min(dist),
		"max_uv_distance": floats.Max(dist),
	}
}

func relative(dir string, files []string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			rel = f
		}
		out[i] = rel
	}
	return out
}

// Open reloads a dataset written by Run using its metadata.
func Open(dir string) (*dataset.Interferometer, *storage.Metadata, error) {
	meta, err := storage.LoadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	g, err := grid.Square(meta.Shape, meta.PixelScales, meta.SubSize)
	if err != nil {
		return nil, nil, err
	}
	d, err := dataset.FromFITS(dataset.PathsIn(dir), g, meta.Transformer)
	if err != nil {
		return nil, nil, err
	}
	d.ExposureTime = meta.ExposureTime
	return d, meta, nil
}
