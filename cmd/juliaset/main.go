package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/juliaset/internal/config"
	"github.com/san-kum/juliaset/internal/fractal"
	"github.com/san-kum/juliaset/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	width     int
	height    int
	maxIter   int
	samples   int
	partition string
	workers   int
	tileSize  int
	paletteN  string

	frameCount  int
	benchFrames int
	saveRun     bool
	theme       string
	liveZoom    bool
	liveMove    bool
	benchZoom   bool
	benchParts  []string
	benchWork   []int

	sweepReMin float64
	sweepReMax float64
	sweepImMin float64
	sweepImMax float64
	sweepSteps int
)

// main registers the commands and flags, defaults to the live view when no
// subcommand is given, and exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "juliaset",
		Short:         "interactive julia set explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".juliaset", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named julia parameter")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log frame timings to stderr")
	pf.IntVar(&width, "width", config.DefaultWidth, "raster width in pixels")
	pf.IntVar(&height, "height", config.DefaultHeight, "raster height in pixels")
	pf.IntVar(&maxIter, "max-iter", config.DefaultMaxIteration, "iteration cap")
	pf.IntVar(&samples, "samples", config.DefaultSamplesPerLine, "supersamples per pixel edge")
	pf.StringVar(&partition, "partition", config.DefaultPartition, "work partition (sequential, rows, bands, tiles)")
	pf.IntVar(&workers, "workers", 0, "worker count (0 = all cpus)")
	pf.IntVar(&tileSize, "tile", 32, "tile edge for the tiles partition")
	pf.StringVar(&paletteN, "palette", config.DefaultPalette, "colour palette")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "explore in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&saveRun, "save", false, "save frame statistics on exit")
	liveCmd.Flags().StringVar(&theme, "theme", "", "panel theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&liveZoom, "zoom", false, "start with zoom on")
	liveCmd.Flags().BoolVar(&liveMove, "move", false, "start with pan on")

	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "compute frames and print statistics",
		Args:  cobra.NoArgs,
		RunE:  runFrame,
	}
	frameCmd.Flags().IntVar(&frameCount, "frames", 1, "number of frames")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare partitions and worker counts",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 5, "frames per configuration")
	benchCmd.Flags().StringSliceVar(&benchParts, "partitions", []string{"sequential", "rows", "bands", "tiles"}, "partitions to compare")
	benchCmd.Flags().BoolVar(&benchZoom, "zoom", false, "zoom in on every frame instead of holding the viewport")
	benchCmd.Flags().IntSliceVar(&benchWork, "worker-counts", nil, "worker counts to compare (default 1, 2, 4 and all cpus)")

	flyCmd := &cobra.Command{
		Use:   "fly [script.yaml]",
		Short: "run a flight script and save its statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runFly,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the julia parameter along a line",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepReMin, "re-min", -1.0, "start real part")
	sweepCmd.Flags().Float64Var(&sweepReMax, "re-max", 0.5, "end real part")
	sweepCmd.Flags().Float64Var(&sweepImMin, "im-min", 0.156, "start imaginary part")
	sweepCmd.Flags().Float64Var(&sweepImMax, "im-max", 0.156, "end imaginary part")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 16, "number of points")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot frame statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list julia parameter presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	palettesCmd := &cobra.Command{
		Use:   "palettes",
		Short: "list colour palettes",
		Args:  cobra.NoArgs,
		RunE:  listPalettes,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, frameCmd, benchCmd, flyCmd, sweepCmd, listCmd, plotCmd, exportCmd, presetsCmd, palettesCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the configuration: defaults, then the config file, then
// the preset, then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Raster.Width = width
	}
	if flags.Changed("height") {
		cfg.Raster.Height = height
	}
	if flags.Changed("max-iter") {
		cfg.Escape.MaxIteration = maxIter
	}
	if flags.Changed("samples") {
		cfg.Escape.SamplesPerLine = samples
	}
	if flags.Changed("partition") {
		cfg.Compute.Partition = partition
	}
	if flags.Changed("workers") {
		cfg.Compute.Workers = workers
	}
	if flags.Changed("tile") {
		cfg.Compute.TileSize = tileSize
	}
	if flags.Changed("palette") {
		cfg.Palette = paletteN
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
