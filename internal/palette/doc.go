// Package palette maps normalised iteration counts to colours.
//
// A [Gradient] is built once and never mutated; [Mapper] reads a finished
// iteration grid and writes RGBA8 pixels, row-major, alpha fixed at 255.
package palette
