package fractal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/juliaset/internal/compute"
	"github.com/san-kum/juliaset/internal/palette"
)

// Renderer is the capability set a host drives once per frame.
type Renderer interface {
	Navigate(cmd Command)
	ComputeFrame(ctx context.Context) (*Grid, error)
	RenderTo(buf []byte) error
	Viewport() Viewport
}

// Options configure an Engine. Width and Height are fixed for the lifetime
// of the engine.
type Options struct {
	Width, Height int
	Viewport      Viewport
	Params        Params
	Navigation    Navigation
	Plan          compute.Plan
	Gradient      *palette.Gradient
}

// DefaultOptions returns options for a width x height raster with the
// default viewport, params and plan.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:      width,
		Height:     height,
		Viewport:   DefaultViewport(),
		Params:     DefaultParams(),
		Navigation: DefaultNavigation(),
		Plan:       compute.DefaultPlan(),
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: raster %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if !(o.Viewport.Zoom > 0) || math.IsInf(o.Viewport.Zoom, 0) {
		return fmt.Errorf("%w: zoom must be positive, got %g", ErrInvalidOptions, o.Viewport.Zoom)
	}
	if o.Params.MaxIteration < 1 || o.Params.MaxIteration > math.MaxUint16 {
		return fmt.Errorf("%w: max iteration must be in [1, %d], got %d", ErrInvalidOptions, math.MaxUint16, o.Params.MaxIteration)
	}
	if !(o.Params.EscapeRadius > 0) {
		return fmt.Errorf("%w: escape radius must be positive, got %g", ErrInvalidOptions, o.Params.EscapeRadius)
	}
	if o.Params.SamplesPerLine < 1 {
		return fmt.Errorf("%w: samples per line must be at least 1, got %d", ErrInvalidOptions, o.Params.SamplesPerLine)
	}
	if o.Params.MaxIteration*o.Params.SamplesPerPixel() > math.MaxInt32 {
		return fmt.Errorf("%w: too many samples per pixel", ErrInvalidOptions)
	}
	if !(o.Navigation.ZoomFactor > 0) {
		return fmt.Errorf("%w: zoom factor must be positive, got %g", ErrInvalidOptions, o.Navigation.ZoomFactor)
	}
	return nil
}

// Engine owns the viewport and the iteration grids and computes one frame
// per ComputeFrame call. It is not safe for concurrent use; the host must
// serialise Navigate, ComputeFrame and RenderTo.
type Engine struct {
	width, height int
	view          Viewport
	nav           Navigation
	params        Params

	sched   compute.Scheduler
	regions []compute.Region
	mapper  *palette.Mapper

	front, back *Grid
	ready       bool

	frames     uint64
	iterations uint64
	lastFrame  time.Duration

	fill func(k *kernel, g *Grid, r compute.Region)
}

var _ Renderer = (*Engine)(nil)

func New(opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	regions, err := opts.Plan.Regions(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	return &Engine{
		width:   opts.Width,
		height:  opts.Height,
		view:    opts.Viewport,
		nav:     opts.Navigation,
		params:  opts.Params,
		sched:   compute.NewPool(opts.Plan.Workers),
		regions: regions,
		mapper:  palette.NewMapper(opts.Gradient),
		front:   NewGrid(opts.Width, opts.Height),
		back:    NewGrid(opts.Width, opts.Height),
		fill:    fillRegion,
	}, nil
}

func (e *Engine) Width() int             { return e.width }
func (e *Engine) Height() int            { return e.height }
func (e *Engine) Params() Params         { return e.params }
func (e *Engine) Navigation() Navigation { return e.nav }
func (e *Engine) Viewport() Viewport     { return e.view }
func (e *Engine) Regions() int           { return len(e.regions) }
func (e *Engine) Workers() int           { return e.sched.Workers() }

// LargestRegion reports the pixel count of the biggest task region, which
// bounds the time a single worker can hold up a frame.
func (e *Engine) LargestRegion() int {
	largest := 0
	for _, r := range e.regions {
		largest = max(largest, r.Pixels())
	}
	return largest
}

// Frames is the number of ComputeFrame calls, including failed ones.
func (e *Engine) Frames() uint64 { return e.frames }

// Iterations is the running total of averaged counts over all completed frames.
func (e *Engine) Iterations() uint64 { return e.iterations }

// LastFrameTime is the wall time of the most recent ComputeFrame.
func (e *Engine) LastFrameTime() time.Duration { return e.lastFrame }

// Navigate applies a navigation command. It affects the next frame only.
func (e *Engine) Navigate(cmd Command) {
	e.view.Apply(cmd, e.nav)
}

// SetGradient swaps the palette used by RenderTo. The grids are unaffected.
func (e *Engine) SetGradient(g *palette.Gradient) {
	e.mapper = palette.NewMapper(g)
}

func (e *Engine) Gradient() *palette.Gradient { return e.mapper.Gradient() }

// SetViewport replaces the viewport, e.g. when a preset is selected. A
// viewport without a positive finite zoom is rejected and the current one
// is kept.
func (e *Engine) SetViewport(v Viewport) error {
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return fmt.Errorf("%w: zoom must be positive, got %g", ErrInvalidOptions, v.Zoom)
	}
	e.view = v
	return nil
}

// ComputeFrame fills the whole raster for the current viewport and blocks
// until every task has finished. The returned grid stays valid until the
// next call to ComputeFrame.
//
// If any task fails the frame is discarded, RenderTo reports ErrNoFrame, and
// the error is returned as a *FrameError.
func (e *Engine) ComputeFrame(ctx context.Context) (*Grid, error) {
	snap := e.view
	k := newKernel(snap, e.width, e.params)
	grid := e.back

	start := time.Now()
	err := e.sched.Run(ctx, e.regions, func(r compute.Region) error {
		e.fill(&k, grid, r)
		return nil
	})
	e.lastFrame = time.Since(start)
	e.frames++

	if err != nil {
		e.ready = false
		Logger().Warn("frame aborted", "frame", e.frames, "viewport", snap.String(), "err", err)
		return nil, &FrameError{Frame: e.frames, Viewport: snap, Wrapped: err}
	}

	e.front, e.back = grid, e.front
	e.ready = true
	e.iterations += grid.Sum()

	Logger().Debug("frame computed",
		"frame", e.frames,
		"elapsed", e.lastFrame,
		"regions", len(e.regions),
		"viewport", snap.String())

	return grid, nil
}

// Grid returns the last completed grid, or nil if there is none.
func (e *Engine) Grid() *Grid {
	if !e.ready {
		return nil
	}
	return e.front
}

// RenderTo writes the last completed frame into buf as RGBA8, row-major,
// at index (y*width + x)*4.
func (e *Engine) RenderTo(buf []byte) error {
	if want := e.width * e.height * 4; len(buf) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(buf), want)
	}
	if !e.ready {
		return ErrNoFrame
	}
	e.mapper.Map(e.front.Cells(), e.params.MaxIteration, buf)
	return nil
}

// fillRegion evaluates every pixel of r. It writes only to the cells of r,
// one row sub-slice at a time.
func fillRegion(k *kernel, g *Grid, r compute.Region) {
	for y := r.Y0; y < r.Y1; y++ {
		row := g.Row(y)[r.X0:r.X1]
		for i := range row {
			row[i] = k.pixel(r.X0+i, y)
		}
	}
}
