package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/uvsim/internal/config"
	"github.com/san-kum/uvsim/internal/convert"
	"github.com/san-kum/uvsim/internal/fits"
	"github.com/san-kum/uvsim/internal/pipeline"
	"github.com/san-kum/uvsim/internal/plane"
	"github.com/san-kum/uvsim/internal/profiles"
	"github.com/san-kum/uvsim/internal/storage"
	"github.com/san-kum/uvsim/internal/transform"
	"github.com/san-kum/uvsim/internal/uvgen"
	"github.com/san-kum/uvsim/internal/viz"
)

var (
	logLevel    string
	configFile  string
	preset      string
	root        string
	uvPath      string
	transformer string
	seed        int64
	noPlots     bool
	overwrite   bool
	count       int
	// uv-wavelengths
	array        string
	antennas     int
	radius       float64
	integrations int
	uvOverwrite  bool
	// config
	configPreset string
)

// main registers the commands; with no subcommand it runs the default
// simulation. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "uvsim",
		Short:        "simulate interferometer datasets of parametric galaxies",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: runSimulation,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	addSimulateFlags(rootCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate a dataset and write it to disk",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimulateFlags(simulateCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "simulate several noise realisations of one scene",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimulateFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&count, "count", 10, "number of realisations")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list simulated datasets",
		RunE:  listDatasets,
	}
	listCmd.Flags().StringVar(&root, "root", config.DefaultRoot, "dataset root directory")

	inspectCmd := &cobra.Command{
		Use:   "inspect [dataset_dir]",
		Short: "summarise a dataset in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectDataset,
	}

	viewCmd := &cobra.Command{
		Use:   "view [dataset_dir]",
		Short: "browse dirty images and uv coverage interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  viewDataset,
	}

	uvCmd := &cobra.Command{
		Use:   "uv-wavelengths [out.fits]",
		Short: "write synthetic uv coverage",
		Args:  cobra.ExactArgs(1),
		RunE:  writeUVWavelengths,
	}
	uvCmd.Flags().StringVar(&array, "array", "sma", "array layout (sma, alma)")
	uvCmd.Flags().IntVar(&antennas, "antennas", 0, "number of antennas (overrides array)")
	uvCmd.Flags().Float64Var(&radius, "radius", 0, "array radius in metres (overrides array)")
	uvCmd.Flags().IntVar(&integrations, "integrations", 0, "integrations per track (overrides array)")
	uvCmd.Flags().BoolVar(&uvOverwrite, "overwrite", false, "replace an existing file")

	planeCmd := &cobra.Command{
		Use:   "plane [plane.json]",
		Short: "print a saved scene",
		Args:  cobra.ExactArgs(1),
		RunE:  printPlane,
	}

	configCmd := &cobra.Command{
		Use:   "config [out.yaml]",
		Short: "write the configuration of a preset as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&configPreset, "preset", "light_sersic_exp", "preset to write")

	rootCmd.AddCommand(simulateCmd, ensembleCmd, presetsCmd, listCmd, inspectCmd, viewCmd, uvCmd, planeCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimulateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scene")
	cmd.Flags().StringVar(&root, "root", config.DefaultRoot, "dataset root directory")
	cmd.Flags().StringVar(&uvPath, "uv", "", "uv wavelengths fits file")
	cmd.Flags().StringVar(&transformer, "transformer", transform.KindDFT, "transformer ("+strings.Join(transform.Kinds(), ", ")+")")
	cmd.Flags().Int64Var(&seed, "seed", -1, "noise seed, -1 for time based")
	cmd.Flags().BoolVar(&noPlots, "no-plots", false, "skip png figures")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "replace existing outputs")
}

// loadConfig applies the preset, then the config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Dataset.Root = root
	}
	if flags.Changed("uv") {
		cfg.UVWavelengths.Path = uvPath
	}
	if flags.Changed("transformer") {
		cfg.Simulator.Transformer = transformer
	}
	if flags.Changed("seed") {
		cfg.Simulator.NoiseSeed = seed
	}
	if flags.Changed("overwrite") {
		cfg.Output.Overwrite = overwrite
	}
	if noPlots {
		cfg.Output.Plots = false
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipeline.Run(ctx, cfg, logrus.StandardLogger())
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d files to %s\n", len(res.Files), res.Dir)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := pipeline.RunEnsemble(ctx, cfg, count, logrus.StandardLogger())
	if err != nil {
		return err
	}

	for _, res := range results {
		fmt.Printf("seed %d: %s\n", res.Metadata.Seed, res.Dir)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDATASET\tUV\tTRANSFORMER\tPROFILES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		var roles []string
		for _, g := range cfg.Galaxies {
			for _, p := range g.Profiles {
				roles = append(roles, p.Role+":"+p.Type)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name, cfg.Dataset.Name, cfg.UVWavelengths.Path, cfg.Simulator.Transformer, strings.Join(roles, ","))
	}
	return w.Flush()
}

func listDatasets(cmd *cobra.Command, args []string) error {
	st := storage.New(root)
	datasets, err := st.List()
	if err != nil {
		return err
	}

	if len(datasets) == 0 {
		fmt.Println("no datasets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATASET\tTIME\tVIS\tGRID\tTRANSFORMER\tSIGMA")
	for _, d := range datasets {
		fmt.Fprintf(w, "%s\t%s/%s\t%s\t%d\t%dx%d\t%s\t%g\n",
			d.ID,
			d.Type, d.Name,
			d.Timestamp.Format("2006-01-02 15:04:05"),
			d.Visibilities,
			d.Shape[0], d.Shape[1],
			d.Transformer,
			d.NoiseSigma,
		)
	}
	return w.Flush()
}

func inspectDataset(cmd *cobra.Command, args []string) error {
	d, meta, err := pipeline.Open(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(meta, d))
	return nil
}

func viewDataset(cmd *cobra.Command, args []string) error {
	d, meta, err := pipeline.Open(args[0])
	if err != nil {
		return err
	}
	v, err := viz.NewViewer(meta.Type+"/"+meta.Name, d)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}

func writeUVWavelengths(cmd *cobra.Command, args []string) error {
	var cfg uvgen.Config
	switch array {
	case "sma":
		cfg = uvgen.SMA()
	case "alma":
		cfg = uvgen.ALMA()
	default:
		return fmt.Errorf("unknown array: %s (available: sma, alma)", array)
	}
	if cmd.Flags().Changed("antennas") {
		cfg.Antennas = antennas
	}
	if cmd.Flags().Changed("radius") {
		cfg.RadiusMetres = radius
	}
	if cmd.Flags().Changed("integrations") {
		cfg.Integrations = integrations
	}

	uv, err := uvgen.Generate(cfg)
	if err != nil {
		return err
	}
	if err := fits.WriteArray(args[0], fits.FromPairs(uv), uvOverwrite); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"path": args[0], "baselines": cfg.Baselines(), "visibilities": len(uv)}).Info("wrote uv wavelengths")
	return nil
}

func printPlane(cmd *cobra.Command, args []string) error {
	p, err := plane.Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GALAXY\tREDSHIFT\tROLE\tTYPE\tCENTRE\tAXIS_RATIO\tANGLE")
	for i, g := range p.Galaxies() {
		for _, np := range g.Profiles() {
			q, angle := 1.0, 0.0
			if e, ok := ellComps(np.Profile); ok {
				q, angle = convert.AxisRatioAndAngleFrom(e)
			}
			c := np.Profile.Centre()
			fmt.Fprintf(w, "%d\t%g\t%s\t%s\t(%g, %g)\t%.3f\t%.1f\n",
				i, g.Redshift, np.Role, np.Profile.Kind(), c.Y, c.X, q, angle)
		}
	}
	return w.Flush()
}

func ellComps(lp profiles.LightProfile) (convert.EllComps, bool) {
	switch p := lp.(type) {
	case *profiles.Sersic:
		return p.EllComps, true
	case *profiles.Exponential:
		return p.EllComps, true
	case *profiles.DevVaucouleurs:
		return p.EllComps, true
	}
	return convert.EllComps{}, false
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(configPreset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", configPreset, config.ListPresets())
	}
	return config.Save(args[0], cfg)
}
