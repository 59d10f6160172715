package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/juliaset/internal/automation"
	"github.com/san-kum/juliaset/internal/compute"
	"github.com/san-kum/juliaset/internal/config"
	"github.com/san-kum/juliaset/internal/control"
	"github.com/san-kum/juliaset/internal/fractal"
	"github.com/san-kum/juliaset/internal/metrics"
	"github.com/san-kum/juliaset/internal/palette"
	"github.com/san-kum/juliaset/internal/storage"
	"github.com/san-kum/juliaset/internal/viz"
)

// runMetadata describes a finished run for the store.
func runMetadata(name, kind string, cfg *config.Config, eng *fractal.Engine, start fractal.Viewport, rec *metrics.Recorder) storage.RunMetadata {
	return storage.RunMetadata{
		Name:           name,
		Kind:           kind,
		Width:          eng.Width(),
		Height:         eng.Height(),
		MaxIteration:   eng.Params().MaxIteration,
		SamplesPerLine: eng.Params().SamplesPerLine,
		Partition:      cfg.Compute.Partition,
		Workers:        eng.Workers(),
		Palette:        eng.Gradient().Name(),
		Start:          storage.NewViewportRecord(start),
		End:            storage.NewViewportRecord(eng.Viewport()),
		Metrics:        rec.Values(),
	}
}

func saveRecorded(meta storage.RunMetadata, rec *metrics.Recorder) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(meta, storage.FromSamples(rec.Samples()))
}

func presetName(fallback string) string {
	if preset != "" {
		return preset
	}
	return fallback
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := cfg.NewEngine()
	if err != nil {
		return err
	}
	start := eng.Viewport()
	if theme != "" {
		if err := viz.SetTheme(theme); err != nil {
			return err
		}
	}

	model := viz.NewModel(cmd.Context(), eng, preset)
	model.Pilot().SetZoom(liveZoom)
	model.Pilot().SetMove(liveMove)

	final, err := viz.Run(cmd.Context(), model)
	if err != nil {
		return err
	}

	rec := final.Recorder()
	if !saveRun || len(rec.Samples()) == 0 {
		return nil
	}
	runID, err := saveRecorded(runMetadata(presetName("live"), "live", cfg, eng, start, rec), rec)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func runFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := cfg.NewEngine()
	if err != nil {
		return err
	}
	if frameCount < 1 {
		return fmt.Errorf("frames must be positive, got %d", frameCount)
	}

	rec := metrics.NewRecorder(0)
	var g *fractal.Grid
	for i := 0; i < frameCount; i++ {
		g, err = eng.ComputeFrame(cmd.Context())
		if err != nil {
			return err
		}
		rec.Observe(eng.Frames(), g, eng.Params().MaxIteration, eng.LastFrameTime())
	}

	buf := make([]byte, eng.Width()*eng.Height()*4)
	renderStart := time.Now()
	if err := eng.RenderTo(buf); err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	values := rec.Values()
	last := rec.Samples()[len(rec.Samples())-1]
	cx, cy := eng.Width()/2, eng.Height()/2

	fmt.Printf("raster:    %dx%d, %d samples/pixel, cap %d\n", eng.Width(), eng.Height(), eng.Params().SamplesPerPixel(), eng.Params().MaxIteration)
	fmt.Printf("viewport:  %s\n", eng.Viewport())
	fmt.Printf("compute:   %s, %d workers, %d regions\n", cfg.Compute.Partition, eng.Workers(), eng.Regions())
	fmt.Printf("frames:    %d, mean %.2f ms\n", frameCount, values["frame_time_ms"])
	fmt.Printf("render:    %.2f ms (%s)\n", float64(renderTime.Microseconds())/1000, eng.Gradient().Name())
	fmt.Printf("mean iter: %.2f\n", last.MeanIteration)
	fmt.Printf("bounded:   %.2f%%\n", last.BoundedFraction*100)
	fmt.Printf("centre:    %d at (%d, %d)\n", g.At(cx, cy), cx, cy)

	fmt.Println("\nmetrics:")
	for _, m := range rec.Metrics() {
		fmt.Printf("  %-18s %.3f\n", m.Name(), m.Value())
	}
	return nil
}

func benchWorkerCounts() []int {
	if len(benchWork) > 0 {
		return benchWork
	}
	counts := []int{1, 2, 4}
	if n := runtime.NumCPU(); n > 4 {
		counts = append(counts, n)
	}
	return counts
}

func runBench(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if benchFrames < 1 {
		return fmt.Errorf("frames must be positive, got %d", benchFrames)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var reference *fractal.Grid

	fmt.Printf("benchmarking %dx%d at %s, %d frames each\n\n", base.Raster.Width, base.Raster.Height, base.GetViewport(), benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTITION\tWORKERS\tREGIONS\tLARGEST\tMEAN\tMIN\tMAX\tMPIX/S\tMATCH\tRUN")

	for _, name := range benchParts {
		part, err := compute.ParsePartition(name)
		if err != nil {
			return err
		}
		for _, n := range benchWorkerCounts() {
			cfg := *base
			cfg.Compute.Partition = string(part)
			cfg.Compute.Workers = n

			eng, err := cfg.NewEngine()
			if err != nil {
				return err
			}
			start := eng.Viewport()
			rec := metrics.NewRecorder(0)

			var pilot control.Pilot = control.NewNone()
			if benchZoom {
				zoom := control.NewToggle(0)
				zoom.SetZoom(true)
				pilot = zoom
			}

			var g *fractal.Grid
			minT, maxT := time.Duration(1<<62), time.Duration(0)
			for i := 0; i < benchFrames; i++ {
				for _, c := range pilot.Commands(eng.Frames()) {
					eng.Navigate(c)
				}
				g, err = eng.ComputeFrame(cmd.Context())
				if err != nil {
					return err
				}
				elapsed := eng.LastFrameTime()
				minT, maxT = min(minT, elapsed), max(maxT, elapsed)
				rec.Observe(eng.Frames(), g, eng.Params().MaxIteration, elapsed)
			}

			match := "ref"
			if reference == nil {
				reference = g.Clone()
			} else if g.Equal(reference) {
				match = "yes"
			} else {
				match = "NO"
			}

			mean := rec.Values()["frame_time_ms"]
			mpix := 0.0
			if mean > 0 {
				mpix = float64(eng.Width()*eng.Height()) / (mean * 1000)
			}

			runID, err := st.Save(runMetadata(presetName("bench"), "bench", &cfg, eng, start, rec), storage.FromSamples(rec.Samples()))
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s\t%d\t%d\t%dpx\t%.2fms\t%.2fms\t%.2fms\t%.1f\t%s\t%s\n",
				part, eng.Workers(), eng.Regions(), eng.LargestRegion(), mean,
				float64(minT.Microseconds())/1000, float64(maxT.Microseconds())/1000,
				mpix, match, runID)
		}
	}

	return w.Flush()
}

func runFly(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	name := script.Name
	if name == "" {
		name = "fly"
	}
	fmt.Printf("flying %s: %d steps, %d frames\n", name, len(script.Steps), script.TotalFrames())
	if script.Description != "" {
		fmt.Printf("  %s\n", script.Description)
	}

	rec := metrics.NewRecorder(0)
	start := eng.Viewport()
	if p := config.GetPreset(script.Preset); p != nil {
		start = fractal.Viewport{CenterRe: p.CenterRe, CenterIm: p.CenterIm, Zoom: p.Zoom}
	}

	res, err := automation.Run(cmd.Context(), eng, script, rec)
	if err != nil {
		return err
	}

	runID, err := saveRecorded(runMetadata(name, "fly", cfg, eng, start, rec), rec)
	if err != nil {
		return err
	}

	values := rec.Values()
	fmt.Printf("frames:   %d in %v\n", res.Frames, res.Elapsed.Round(time.Millisecond))
	fmt.Printf("mean:     %.2f ms/frame\n", values["frame_time_ms"])
	fmt.Printf("final:    %s\n", res.Viewport)
	fmt.Printf("saved:    %s\n", runID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), eng, automation.ParameterSweep{
		ReMin:    sweepReMin,
		ReMax:    sweepReMax,
		ImMin:    sweepImMin,
		ImMax:    sweepImMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RE\tIM\tMEAN ITER\tBOUNDED\tTIME")
	bounded := make([]float64, len(results))
	for i, r := range results {
		bounded[i] = r.BoundedFraction * 100
		fmt.Fprintf(w, "%.4f\t%.4f\t%.2f\t%.2f%%\t%.2fms\n",
			r.CenterRe, r.CenterIm, r.MeanIteration, bounded[i], float64(r.Elapsed.Microseconds())/1000)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(bounded) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(bounded, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("bounded % along the sweep")))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Printf("no runs found in %s\n", st.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tRASTER\tPARTITION\tWORKERS\tFRAMES\tMEAN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\t%d\t%d\t%.2fms\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Partition,
			run.Workers,
			run.Frames,
			run.Metrics["frame_time_ms"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s, %dx%d, %s\n", meta.Kind, meta.Width, meta.Height, meta.Partition)
	fmt.Printf("frames: %d\n\n", len(records))

	elapsed := make([]float64, len(records))
	mean := make([]float64, len(records))
	for i, r := range records {
		elapsed[i] = r.ElapsedMs
		mean[i] = r.MeanIteration
	}

	fmt.Println(asciigraph.Plot(elapsed, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("frame time (ms)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(mean, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("mean iteration")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).Export(args[0], os.Stdout)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tC\tZOOM\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3f%+.3fi\t%.2f\t%s\n", name, p.CenterRe, p.CenterIm, p.Zoom, p.Description)
	}
	return w.Flush()
}

func listPalettes(cmd *cobra.Command, args []string) error {
	fmt.Println(strings.Join(palette.Names(), "\n"))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "juliaset.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
