package palette

import (
	"errors"
	"fmt"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownPalette is returned by Lookup for names with no gradient.
var ErrUnknownPalette = errors.New("palette: unknown palette")

const lutSize = 1024

// RGBA8 is one pixel in [R, G, B, A] byte order.
type RGBA8 [4]byte

// Gradient is an immutable colour ramp over [0, 1], precomputed into a
// lookup table. It is safe for concurrent use.
type Gradient struct {
	name string
	lut  [lutSize]RGBA8
}

func newGradient(name string, fn func(t float64) colorful.Color) *Gradient {
	g := &Gradient{name: name}
	for i := range g.lut {
		t := float64(i) / float64(lutSize-1)
		r, gr, b := fn(t).Clamped().RGB255()
		g.lut[i] = RGBA8{r, gr, b, 0xff}
	}
	return g
}

func (g *Gradient) Name() string { return g.name }

// At returns the colour at t. Values outside [0, 1] are clamped.
func (g *Gradient) At(t float64) RGBA8 {
	if !(t > 0) {
		return g.lut[0]
	}
	if t >= 1 {
		return g.lut[lutSize-1]
	}
	return g.lut[int(t*float64(lutSize-1)+0.5)]
}

// Cubehelix is Dave Green's cubehelix ramp from black to white, rotating
// from 300° to -240° at saturation 0.5.
func Cubehelix() *Gradient {
	const (
		startHue = 300.0
		endHue   = -240.0
		sat      = 0.5
	)
	return newGradient("cubehelix", func(t float64) colorful.Color {
		return cubehelix(startHue+t*(endHue-startHue), sat, t)
	})
}

func cubehelix(h, s, l float64) colorful.Color {
	rad := (h + 120) * math.Pi / 180
	a := s * l * (1 - l)
	cosh, sinh := math.Cos(rad), math.Sin(rad)
	return colorful.Color{
		R: l + a*(-0.14861*cosh+1.78277*sinh),
		G: l + a*(-0.29227*cosh-0.90649*sinh),
		B: l + a*(1.97294*cosh),
	}
}

// Ultra blends the 16 stops of the classic Ultra Fractal palette in L*a*b*.
func Ultra() *Gradient {
	stops := [...]colorful.Color{
		rgb(66, 30, 15), rgb(25, 7, 26), rgb(9, 1, 47), rgb(4, 4, 73),
		rgb(0, 7, 100), rgb(12, 44, 138), rgb(24, 82, 177), rgb(57, 125, 209),
		rgb(134, 181, 229), rgb(211, 236, 248), rgb(241, 233, 191), rgb(248, 201, 95),
		rgb(255, 170, 0), rgb(204, 128, 0), rgb(153, 87, 0), rgb(106, 52, 3),
	}
	return newGradient("ultra", func(t float64) colorful.Color {
		pos := t * float64(len(stops)-1)
		i := int(pos)
		if i >= len(stops)-1 {
			return stops[len(stops)-1]
		}
		return stops[i].BlendLab(stops[i+1], pos-float64(i))
	})
}

// Grayscale is a linear black to white ramp.
func Grayscale() *Gradient {
	black, white := rgb(0, 0, 0), rgb(255, 255, 255)
	return newGradient("grayscale", func(t float64) colorful.Color {
		return black.BlendRgb(white, t)
	})
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

var gradients = map[string]func() *Gradient{
	"cubehelix": Cubehelix,
	"ultra":     Ultra,
	"grayscale": Grayscale,
}

const Default = "cubehelix"

// Lookup builds the named gradient.
func Lookup(name string) (*Gradient, error) {
	if name == "" {
		name = Default
	}
	fn, ok := gradients[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPalette, name, Names())
	}
	return fn(), nil
}

// Names lists the available gradients in sorted order.
func Names() []string {
	names := make([]string, 0, len(gradients))
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
