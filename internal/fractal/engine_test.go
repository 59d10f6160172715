package fractal

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/juliaset/internal/compute"
	"github.com/san-kum/juliaset/internal/palette"
)

const (
	testWidth  = 96
	testHeight = 54
)

func newTestEngine(mutate func(*Options)) *Engine {
	opts := DefaultOptions(testWidth, testHeight)
	if mutate != nil {
		mutate(&opts)
	}
	eng, err := New(opts)
	Expect(err).NotTo(HaveOccurred())
	return eng
}

func computeGrid(eng *Engine) *Grid {
	g, err := eng.ComputeFrame(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return g.Clone()
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		DescribeTable("rejects invalid options",
			func(mutate func(*Options)) {
				opts := DefaultOptions(testWidth, testHeight)
				mutate(&opts)
				_, err := New(opts)
				Expect(err).To(MatchError(ErrInvalidOptions))
			},
			Entry("zero width", func(o *Options) { o.Width = 0 }),
			Entry("negative height", func(o *Options) { o.Height = -1 }),
			Entry("zero zoom", func(o *Options) { o.Viewport.Zoom = 0 }),
			Entry("negative zoom", func(o *Options) { o.Viewport.Zoom = -2 }),
			Entry("zero max iteration", func(o *Options) { o.Params.MaxIteration = 0 }),
			Entry("max iteration beyond uint16", func(o *Options) { o.Params.MaxIteration = 70000 }),
			Entry("zero escape radius", func(o *Options) { o.Params.EscapeRadius = 0 }),
			Entry("zero samples", func(o *Options) { o.Params.SamplesPerLine = 0 }),
			Entry("zero zoom factor", func(o *Options) { o.Navigation.ZoomFactor = 0 }),
			Entry("unknown partition", func(o *Options) { o.Plan.Partition = "stealing" }),
		)

		DescribeTable("reports the largest task region",
			func(plan compute.Plan, regions, largest int) {
				eng := newTestEngine(func(o *Options) { o.Plan = plan })
				Expect(eng.Regions()).To(Equal(regions))
				Expect(eng.LargestRegion()).To(Equal(largest))
			},
			Entry("sequential", compute.Plan{Partition: compute.Sequential, Workers: 1}, 1, testWidth*testHeight),
			Entry("rows", compute.Plan{Partition: compute.Rows, Workers: 4}, testHeight, testWidth),
			Entry("bands, 2 workers", compute.Plan{Partition: compute.Bands, Workers: 2}, 2, testWidth*27),
			Entry("bands, 7 workers", compute.Plan{Partition: compute.Bands, Workers: 7}, 7, testWidth*8),
			Entry("tiles 16", compute.Plan{Partition: compute.Tiles, Workers: 3, TileSize: 16}, 24, 256),
		)

		It("keeps the raster size fixed", func() {
			eng := newTestEngine(nil)
			Expect(eng.Width()).To(Equal(testWidth))
			Expect(eng.Height()).To(Equal(testHeight))
			Expect(eng.Grid()).To(BeNil())
		})
	})

	Describe("navigation", func() {
		It("applies commands to the viewport", func() {
			eng := newTestEngine(nil)
			eng.Navigate(Zoom())
			eng.Navigate(Shift(10, -10))
			eng.Navigate(Pan())

			v := eng.Viewport()
			Expect(v.Zoom).To(BeNumerically("~", 1.7, 1e-12))
			Expect(v.OffsetX).To(Equal(int32(10)))
			Expect(v.OffsetY).To(Equal(int32(-10)))
			Expect(v.CenterRe).To(BeNumerically("~", -0.79, 1e-12))
		})

		It("rejects a viewport without a positive zoom", func() {
			eng := newTestEngine(nil)
			before := eng.Viewport()
			for _, zoom := range []float64{0, -1.5, math.NaN(), math.Inf(1)} {
				err := eng.SetViewport(Viewport{CenterRe: 0.285, CenterIm: 0.01, Zoom: zoom})
				Expect(err).To(MatchError(ErrInvalidOptions))
				Expect(eng.Viewport()).To(Equal(before))
			}

			Expect(eng.SetViewport(Viewport{CenterRe: 0.285, CenterIm: 0.01, Zoom: 1.5})).To(Succeed())
			Expect(eng.Viewport().Zoom).To(Equal(1.5))
		})

		It("affects only frames computed afterwards", func() {
			eng := newTestEngine(nil)
			before := computeGrid(eng)

			eng.Navigate(Zoom())
			Expect(eng.Grid().Equal(before)).To(BeTrue())

			after := computeGrid(eng)
			Expect(after.Equal(before)).To(BeFalse())

			ref := newTestEngine(func(o *Options) { o.Viewport.Zoom = 1.7 })
			Expect(computeGrid(ref).Equal(after)).To(BeTrue())
		})
	})

	Describe("ComputeFrame", func() {
		It("is deterministic for an unchanged viewport", func() {
			eng := newTestEngine(nil)
			first := computeGrid(eng)
			second := computeGrid(eng)
			Expect(second.Equal(first)).To(BeTrue())
		})

		It("keeps every cell within [0, MaxIteration]", func() {
			eng := newTestEngine(func(o *Options) {
				o.Params.MaxIteration = 40
				o.Viewport = Viewport{CenterRe: 0, CenterIm: 0, Zoom: 1.5}
			})
			g := computeGrid(eng)
			Expect(int(g.Max())).To(BeNumerically("<=", 40))
			Expect(g.Count(40)).To(BeNumerically(">", 0))
		})

		It("matches the per-pixel evaluator", func() {
			eng := newTestEngine(nil)
			g := computeGrid(eng)
			for _, p := range [][2]int{{0, 0}, {48, 27}, {95, 53}, {13, 40}} {
				want := Supersample(p[0], p[1], eng.Viewport(), testWidth, eng.Params())
				Expect(g.At(p[0], p[1])).To(Equal(want))
			}
		})

		It("counts frames and iterations", func() {
			eng := newTestEngine(nil)
			g := computeGrid(eng)
			computeGrid(eng)
			Expect(eng.Frames()).To(Equal(uint64(2)))
			Expect(eng.Iterations()).To(Equal(2 * g.Sum()))
			Expect(eng.LastFrameTime()).To(BeNumerically(">", 0))
		})
	})

	Describe("partition independence", func() {
		viewports := []struct {
			name string
			view Viewport
		}{
			{"default", DefaultViewport()},
			{"zoomed", Viewport{CenterRe: -0.123, CenterIm: 0.745, Zoom: 0.6, OffsetX: 17, OffsetY: -9}},
		}

		for _, vp := range viewports {
			name, view := vp.name, vp.view
			reference := func() *Grid {
				eng := newTestEngine(func(o *Options) {
					o.Viewport = view
					o.Plan = compute.Plan{Partition: compute.Sequential, Workers: 1}
				})
				return computeGrid(eng)
			}

			DescribeTable("matches a sequential computation: "+name,
				func(plan compute.Plan) {
					want := reference()
					eng := newTestEngine(func(o *Options) {
						o.Viewport = view
						o.Plan = plan
					})
					Expect(computeGrid(eng).Equal(want)).To(BeTrue())
				},
				Entry("rows, 1 worker", compute.Plan{Partition: compute.Rows, Workers: 1}),
				Entry("rows, 4 workers", compute.Plan{Partition: compute.Rows, Workers: 4}),
				Entry("bands, 2 workers", compute.Plan{Partition: compute.Bands, Workers: 2}),
				Entry("bands, 7 workers", compute.Plan{Partition: compute.Bands, Workers: 7}),
				Entry("bands, more workers than rows", compute.Plan{Partition: compute.Bands, Workers: 100}),
				Entry("tiles 16, 3 workers", compute.Plan{Partition: compute.Tiles, Workers: 3, TileSize: 16}),
				Entry("tiles 5, 8 workers", compute.Plan{Partition: compute.Tiles, Workers: 8, TileSize: 5}),
				Entry("default plan", compute.DefaultPlan()),
			)
		}
	})

	Describe("failures", func() {
		It("propagates a task panic and withholds the frame", func() {
			eng := newTestEngine(func(o *Options) {
				o.Plan = compute.Plan{Partition: compute.Rows, Workers: 4}
			})
			computeGrid(eng)

			eng.fill = func(k *kernel, g *Grid, r compute.Region) {
				if r.Y0 == 5 {
					panic("evaluator fault")
				}
				fillRegion(k, g, r)
			}

			g, err := eng.ComputeFrame(context.Background())
			Expect(g).To(BeNil())

			var frameErr *FrameError
			Expect(errors.As(err, &frameErr)).To(BeTrue())
			Expect(frameErr.Frame).To(Equal(uint64(2)))

			var taskPanic *compute.TaskPanic
			Expect(errors.As(err, &taskPanic)).To(BeTrue())
			Expect(taskPanic.Region.Y0).To(Equal(5))

			buf := make([]byte, testWidth*testHeight*4)
			Expect(eng.RenderTo(buf)).To(MatchError(ErrNoFrame))
			Expect(eng.Grid()).To(BeNil())

			eng.fill = fillRegion
			computeGrid(eng)
			Expect(eng.RenderTo(buf)).To(Succeed())
		})

		It("reports a canceled context as a failed frame", func() {
			eng := newTestEngine(nil)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := eng.ComputeFrame(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(eng.Grid()).To(BeNil())
		})
	})

	Describe("RenderTo", func() {
		It("requires a completed frame", func() {
			eng := newTestEngine(nil)
			buf := make([]byte, testWidth*testHeight*4)
			Expect(eng.RenderTo(buf)).To(MatchError(ErrNoFrame))
		})

		It("rejects a buffer of the wrong size", func() {
			eng := newTestEngine(nil)
			computeGrid(eng)
			Expect(eng.RenderTo(make([]byte, 10))).To(MatchError(ErrBufferSize))
		})

		It("writes RGBA8 pixels row-major with opaque alpha", func() {
			gradient := palette.Ultra()
			eng := newTestEngine(func(o *Options) { o.Gradient = gradient })
			g := computeGrid(eng)

			buf := make([]byte, testWidth*testHeight*4)
			Expect(eng.RenderTo(buf)).To(Succeed())

			mapper := palette.NewMapper(gradient)
			maxIter := eng.Params().MaxIteration
			for _, p := range [][2]int{{0, 0}, {95, 0}, {0, 53}, {40, 20}, {95, 53}} {
				x, y := p[0], p[1]
				idx := (y*testWidth + x) * 4
				want := mapper.Color(g.At(x, y), maxIter)
				Expect(palette.RGBA8{buf[idx], buf[idx+1], buf[idx+2], buf[idx+3]}).To(Equal(want))
				Expect(buf[idx+3]).To(Equal(byte(255)))
			}
		})
	})

	Describe("end to end", func() {
		It("renders the canonical Julia set with a mid-range center", func() {
			if testing.Short() {
				Skip("full-resolution frame")
			}
			eng, err := New(DefaultOptions(1280, 720))
			Expect(err).NotTo(HaveOccurred())

			g, err := eng.ComputeFrame(context.Background())
			Expect(err).NotTo(HaveOccurred())

			center := int(g.At(640, 360))
			Expect(center).To(BeNumerically(">", 0))
			Expect(center).To(BeNumerically("<", eng.Params().MaxIteration))

			buf := make([]byte, 1280*720*4)
			Expect(eng.RenderTo(buf)).To(Succeed())
		})
	})
})
