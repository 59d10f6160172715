// Package viz provides the terminal host for the Julia set engine.
//
// The package implements a Bubble Tea program:
//
//   - [Model]: drives the engine once per tick and shows a half-block
//     colour preview next to a stats panel
//   - [Canvas]: Braille-based canvas used for the bounded-set view
//   - Theme selection with 4 built-in colour schemes
//
// # Key Bindings
//
//	Arrows - Shift the raster by one offset step
//	Z      - Toggle continuous zoom
//	M      - Toggle continuous parameter drift
//	P      - Single parameter step
//	N      - Next preset
//	C      - Cycle palette
//	B      - Toggle bounded-set (Braille) view
//	Space  - Pause/Resume
//	T      - Cycle themes
//	Q      - Quit
package viz
