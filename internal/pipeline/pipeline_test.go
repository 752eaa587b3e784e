package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/uvsim/internal/config"
	"github.com/san-kum/uvsim/internal/dataset"
	"github.com/san-kum/uvsim/internal/fits"
	"github.com/san-kum/uvsim/internal/pipeline"
	"github.com/san-kum/uvsim/internal/plane"
	"github.com/san-kum/uvsim/internal/plot"
	"github.com/san-kum/uvsim/internal/uvgen"
)

var _ = Describe("Run", func() {
	var (
		cfg *config.Config
		log *logrus.Logger
		uv  [][2]float64
	)

	BeforeEach(func() {
		root := GinkgoT().TempDir()

		var err error
		uv, err = uvgen.Generate(uvgen.SMA())
		Expect(err).NotTo(HaveOccurred())
		uvPath := filepath.Join(root, "interferometer", "uv_wavelengths", "sma.fits")
		Expect(fits.WriteArray(uvPath, fits.FromPairs(uv), false)).To(Succeed())

		cfg = config.DefaultConfig()
		cfg.Dataset.Root = root
		cfg.UVWavelengths.Path = uvPath
		cfg.Grid.Shape = [2]int{32, 32}
		cfg.Simulator.NoiseSeed = 1

		log = logrus.New()
		log.SetOutput(io.Discard)
	})

	It("writes a complete dataset", func() {
		res, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Dir).To(Equal(filepath.Join(cfg.Dataset.Root, "interferometer", "light_sersic_exp")))
		Expect(res.Dataset.Visibilities).To(HaveLen(len(uv)))

		for _, name := range []string{
			dataset.VisibilitiesFile, dataset.NoiseMapFile, dataset.UVWavelengthsFile,
			pipeline.PlaneFile, "metadata.json", "visibilities.csv",
		} {
			Expect(filepath.Join(res.Dir, name)).To(BeAnExistingFile())
		}
		for _, name := range []string{
			plot.ImageFile, plot.SubplotPlaneFile, plot.VisibilitiesFile, plot.UVWavelengthsFile,
			plot.AmplitudesFile, plot.PhasesFile, plot.DirtyImageFile, plot.DirtyNoiseMapFile,
			plot.DirtySignalToNoiseFile, plot.SubplotInterferometerFile, plot.SubplotDirtyImagesFile,
		} {
			info, err := os.Stat(filepath.Join(res.Dir, name))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Size()).To(BeNumerically(">", 0))
		}

		vis, err := fits.ReadComplex(filepath.Join(res.Dir, dataset.VisibilitiesFile), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(vis).To(Equal(res.Dataset.Visibilities))

		noise, err := fits.ReadComplex(filepath.Join(res.Dir, dataset.NoiseMapFile), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(noise).To(HaveEach(complex(1000.0, 1000.0)))
	})

	It("writes a plane description that rebuilds the rendered image", func() {
		res, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).NotTo(HaveOccurred())

		loaded, err := plane.Load(filepath.Join(res.Dir, pipeline.PlaneFile))
		Expect(err).NotTo(HaveOccurred())

		g := res.Dataset.Grid()
		want, err := res.Plane.Image2DFrom(g)
		Expect(err).NotTo(HaveOccurred())
		got, err := loaded.Image2DFrom(g)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("is reproducible for a fixed seed", func() {
		first, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).NotTo(HaveOccurred())
		second, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Dataset.Visibilities).To(Equal(first.Dataset.Visibilities))
	})

	It("reopens what it wrote", func() {
		res, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).NotTo(HaveOccurred())

		d, meta, err := pipeline.Open(res.Dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.ID).To(Equal(res.Metadata.ID))
		Expect(meta.Visibilities).To(Equal(len(uv)))
		Expect(d.Visibilities).To(Equal(res.Dataset.Visibilities))
		Expect(d.Grid().ShapeNative()).To(Equal([2]int{32, 32}))
	})

	Context("when outputs already exist", func() {
		BeforeEach(func() {
			_, err := pipeline.Run(context.Background(), cfg, log)
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails without overwrite and leaves the files alone", func() {
			path := filepath.Join(cfg.DatasetDir(), dataset.VisibilitiesFile)
			before, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			cfg.Output.Overwrite = false
			cfg.Simulator.NoiseSeed = 2
			_, err = pipeline.Run(context.Background(), cfg, log)
			Expect(err).To(MatchError(fits.ErrAlreadyExists))

			after, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("replaces them with overwrite", func() {
			cfg.Simulator.NoiseSeed = 2
			res, err := pipeline.Run(context.Background(), cfg, log)
			Expect(err).NotTo(HaveOccurred())

			vis, err := fits.ReadComplex(filepath.Join(res.Dir, dataset.VisibilitiesFile), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(vis).To(HaveLen(len(uv)))
			Expect(vis).To(Equal(res.Dataset.Visibilities))
		})
	})

	It("stops on a missing uv file", func() {
		cfg.UVWavelengths.Path = filepath.Join(cfg.Dataset.Root, "missing.fits")
		_, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).To(MatchError(os.ErrNotExist))
		Expect(cfg.DatasetDir()).NotTo(BeADirectory())
	})

	It("honours cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := pipeline.Run(ctx, cfg, log)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("skips plots when disabled", func() {
		cfg.Output.Plots = false
		res, err := pipeline.Run(context.Background(), cfg, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Join(res.Dir, plot.DirtyImageFile)).NotTo(BeAnExistingFile())
	})
})

var _ = Describe("RunEnsemble", func() {
	It("writes one dataset per seed", func() {
		root := GinkgoT().TempDir()
		uv, err := uvgen.Generate(uvgen.SMA())
		Expect(err).NotTo(HaveOccurred())
		uvPath := filepath.Join(root, "sma.fits")
		Expect(fits.WriteArray(uvPath, fits.FromPairs(uv), false)).To(Succeed())

		cfg := config.DefaultConfig()
		cfg.Dataset.Root = root
		cfg.UVWavelengths.Path = uvPath
		cfg.Grid.Shape = [2]int{24, 24}
		cfg.Simulator.NoiseSeed = 5
		cfg.Output.Plots = false

		log := logrus.New()
		log.SetOutput(io.Discard)

		results, err := pipeline.RunEnsemble(context.Background(), cfg, 3, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, res := range results {
			name := fmt.Sprintf("light_sersic_exp_seed%d", 5+i)
			Expect(res.Dir).To(Equal(filepath.Join(root, "interferometer", name)))
			Expect(res.Metadata.Seed).To(Equal(int64(5 + i)))
			Expect(filepath.Join(res.Dir, dataset.VisibilitiesFile)).To(BeAnExistingFile())
		}
		Expect(results[0].Dataset.Visibilities).NotTo(Equal(results[1].Dataset.Visibilities))
	})
})
