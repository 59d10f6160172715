package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/juliaset/internal/fractal"
)

// ParameterSweep moves the Julia parameter along a straight line from
// (ReMin, ImMin) to (ReMax, ImMax) and computes one frame per point.
type ParameterSweep struct {
	ReMin, ReMax float64
	ImMin, ImMax float64
	NumSteps     int
}

type SweepResult struct {
	CenterRe        float64
	CenterIm        float64
	MeanIteration   float64
	BoundedFraction float64
	Elapsed         time.Duration
}

// RunSweep keeps the engine's zoom and offsets. The starting viewport is
// restored when the sweep ends.
func RunSweep(ctx context.Context, eng *fractal.Engine, sweep ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	orig := eng.Viewport()
	defer eng.SetViewport(orig)

	maxIteration := uint16(eng.Params().MaxIteration)
	results := make([]SweepResult, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		t := 0.0
		if sweep.NumSteps > 1 {
			t = float64(i) / float64(sweep.NumSteps-1)
		}

		v := orig
		v.CenterRe = sweep.ReMin + t*(sweep.ReMax-sweep.ReMin)
		v.CenterIm = sweep.ImMin + t*(sweep.ImMax-sweep.ImMin)
		if err := eng.SetViewport(v); err != nil {
			return results, err
		}

		g, err := eng.ComputeFrame(ctx)
		if err != nil {
			return results, fmt.Errorf("sweep %d/%d: %w", i+1, sweep.NumSteps, err)
		}

		cells := float64(len(g.Cells()))
		results = append(results, SweepResult{
			CenterRe:        v.CenterRe,
			CenterIm:        v.CenterIm,
			MeanIteration:   float64(g.Sum()) / cells,
			BoundedFraction: float64(g.Count(maxIteration)) / cells,
			Elapsed:         eng.LastFrameTime(),
		})
	}

	return results, nil
}
