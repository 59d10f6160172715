package metrics

import (
	"time"

	"github.com/san-kum/juliaset/internal/fractal"
)

// Sample is the per-frame record kept by a Recorder.
type Sample struct {
	Frame           uint64
	Elapsed         time.Duration
	MeanIteration   float64
	BoundedFraction float64
}

// Recorder keeps one Sample per observed frame and feeds the aggregate
// metrics. A zero limit keeps every sample; otherwise only the most
// recent limit samples are retained.
type Recorder struct {
	metrics []FrameMetric
	samples []Sample
	limit   int
}

func NewRecorder(limit int, ms ...FrameMetric) *Recorder {
	if len(ms) == 0 {
		ms = Defaults()
	}
	return &Recorder{metrics: ms, limit: limit}
}

func (r *Recorder) Observe(frame uint64, g *fractal.Grid, maxIteration int, elapsed time.Duration) {
	for _, m := range r.metrics {
		m.Observe(g, maxIteration, elapsed)
	}

	s := Sample{Frame: frame, Elapsed: elapsed}
	if g != nil && len(g.Cells()) > 0 {
		cells := float64(len(g.Cells()))
		s.MeanIteration = float64(g.Sum()) / cells
		s.BoundedFraction = float64(g.Count(uint16(maxIteration))) / cells
	}
	r.samples = append(r.samples, s)
	if r.limit > 0 && len(r.samples) > r.limit {
		r.samples = r.samples[len(r.samples)-r.limit:]
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) Metrics() []FrameMetric { return r.metrics }

// Values returns each metric's current value keyed by name.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// FrameTimes returns the retained frame times in milliseconds.
func (r *Recorder) FrameTimes() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = float64(s.Elapsed.Microseconds()) / 1000
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	r.samples = nil
}
