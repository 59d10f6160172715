// Package fractal provides the escape-time engine for animated Julia sets.
//
// The package defines the per-frame pipeline:
//
//   - [Viewport]: navigation state (Julia parameter, zoom, pixel offset)
//   - [EscapeTime]: the z² + c escape-time iteration
//   - [Supersample]: K×K jittered samples averaged into one count
//   - [Grid]: the iteration counts of one frame
//   - [Engine]: snapshots the viewport, fills the grid in parallel and
//     maps it to RGBA8 pixels
//
// # Example
//
//	eng, _ := fractal.New(fractal.DefaultOptions(1280, 720))
//	eng.Navigate(fractal.Zoom())
//	if _, err := eng.ComputeFrame(ctx); err != nil {
//		return err
//	}
//	buf := make([]byte, 1280*720*4)
//	_ = eng.RenderTo(buf)
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Parallelism happens inside
// ComputeFrame, where every task owns a disjoint region of the grid.
package fractal
