package metrics

import (
	"time"

	"github.com/san-kum/juliaset/internal/fractal"
)

// FrameMetric accumulates one statistic over completed frames.
type FrameMetric interface {
	Name() string
	Observe(g *fractal.Grid, maxIteration int, elapsed time.Duration)
	Value() float64
	Reset()
}

type FrameTime struct {
	name    string
	total   time.Duration
	samples int
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_time_ms"}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(g *fractal.Grid, maxIteration int, elapsed time.Duration) {
	f.total += elapsed
	f.samples++
}

// Value is the mean frame time in milliseconds.
func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.total.Microseconds()) / 1000 / float64(f.samples)
}

func (f *FrameTime) Reset() {
	f.total = 0
	f.samples = 0
}

type MeanIteration struct {
	name  string
	sum   float64
	cells int
}

func NewMeanIteration() *MeanIteration {
	return &MeanIteration{name: "mean_iteration"}
}

func (m *MeanIteration) Name() string { return m.name }

func (m *MeanIteration) Observe(g *fractal.Grid, maxIteration int, elapsed time.Duration) {
	if g == nil {
		return
	}
	m.sum += float64(g.Sum())
	m.cells += len(g.Cells())
}

func (m *MeanIteration) Value() float64 {
	if m.cells == 0 {
		return 0
	}
	return m.sum / float64(m.cells)
}

func (m *MeanIteration) Reset() {
	m.sum = 0
	m.cells = 0
}

// BoundedFraction is the share of cells that never escaped.
type BoundedFraction struct {
	name    string
	bounded int
	cells   int
}

func NewBoundedFraction() *BoundedFraction {
	return &BoundedFraction{name: "bounded_fraction"}
}

func (b *BoundedFraction) Name() string { return b.name }

func (b *BoundedFraction) Observe(g *fractal.Grid, maxIteration int, elapsed time.Duration) {
	if g == nil {
		return
	}
	b.bounded += g.Count(uint16(maxIteration))
	b.cells += len(g.Cells())
}

func (b *BoundedFraction) Value() float64 {
	if b.cells == 0 {
		return 0
	}
	return float64(b.bounded) / float64(b.cells)
}

func (b *BoundedFraction) Reset() {
	b.bounded = 0
	b.cells = 0
}

type TotalIterations struct {
	name  string
	total uint64
}

func NewTotalIterations() *TotalIterations {
	return &TotalIterations{name: "total_iterations"}
}

func (t *TotalIterations) Name() string { return t.name }

func (t *TotalIterations) Observe(g *fractal.Grid, maxIteration int, elapsed time.Duration) {
	if g == nil {
		return
	}
	t.total += g.Sum()
}

func (t *TotalIterations) Value() float64 { return float64(t.total) }

func (t *TotalIterations) Reset() { t.total = 0 }

func Defaults() []FrameMetric {
	return []FrameMetric{
		NewFrameTime(),
		NewMeanIteration(),
		NewBoundedFraction(),
		NewTotalIterations(),
	}
}
