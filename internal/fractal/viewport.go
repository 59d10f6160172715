package fractal

import "fmt"

// Viewport holds the navigation state of the fractal. It is a plain value:
// copying it takes a snapshot.
type Viewport struct {
	CenterRe float64 // real part of the Julia parameter c
	CenterIm float64 // imaginary part of the Julia parameter c
	Zoom     float64
	OffsetX  int32
	OffsetY  int32
}

// DefaultViewport is the classic c = -0.8 + 0.156i view.
func DefaultViewport() Viewport {
	return Viewport{CenterRe: -0.8, CenterIm: 0.156, Zoom: 2.0}
}

// Navigation holds the constants used by the viewport mutators.
type Navigation struct {
	ZoomFactor float64
	PanRe      float64
	PanIm      float64
	Bound      float64
	WrapRe     float64
	WrapIm     float64
	OffsetStep int32
}

func DefaultNavigation() Navigation {
	return Navigation{
		ZoomFactor: 0.85,
		PanRe:      0.01,
		PanIm:      -0.02,
		Bound:      1.0,
		WrapRe:     0.999,
		WrapIm:     0.998,
		OffsetStep: 10,
	}
}

// ZoomIn magnifies the view by nav.ZoomFactor. There is no lower bound.
func (v *Viewport) ZoomIn(nav Navigation) {
	v.Zoom *= nav.ZoomFactor
}

// PanStep advances the Julia parameter by (PanRe, PanIm). Each axis that
// leaves (-Bound, Bound) jumps to just inside the opposite side.
func (v *Viewport) PanStep(nav Navigation) {
	v.CenterRe = wrap(v.CenterRe+nav.PanRe, nav.Bound, nav.WrapRe)
	v.CenterIm = wrap(v.CenterIm+nav.PanIm, nav.Bound, nav.WrapIm)
}

func wrap(x, bound, target float64) float64 {
	if x > bound {
		return -target
	}
	if x < -bound {
		return target
	}
	return x
}

// PanOffset shifts the raster by a pixel offset. Offsets are unbounded.
func (v *Viewport) PanOffset(dx, dy int32) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Apply dispatches a navigation command.
func (v *Viewport) Apply(cmd Command, nav Navigation) {
	switch cmd.Kind {
	case PanStep:
		v.PanStep(nav)
	case ZoomIn:
		v.ZoomIn(nav)
	case OffsetBy:
		v.PanOffset(cmd.DX, cmd.DY)
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("c=%.4f%+.4fi zoom=%.6g offset=(%d,%d)",
		v.CenterRe, v.CenterIm, v.Zoom, v.OffsetX, v.OffsetY)
}

// CommandKind enumerates navigation commands.
type CommandKind int

const (
	PanStep CommandKind = iota
	ZoomIn
	OffsetBy
)

func (k CommandKind) String() string {
	switch k {
	case PanStep:
		return "pan"
	case ZoomIn:
		return "zoom"
	case OffsetBy:
		return "offset"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is a single navigation request from the host.
type Command struct {
	Kind   CommandKind
	DX, DY int32
}

func Pan() Command { return Command{Kind: PanStep} }

func Zoom() Command { return Command{Kind: ZoomIn} }

func Shift(dx, dy int32) Command { return Command{Kind: OffsetBy, DX: dx, DY: dy} }
