package fractal

import (
	"math"
	"testing"
)

func TestZoomIn(t *testing.T) {
	v := Viewport{Zoom: 2.0}
	v.ZoomIn(DefaultNavigation())

	if math.Abs(v.Zoom-1.7) > 1e-12 {
		t.Errorf("expected zoom 1.7, got %.15f", v.Zoom)
	}

	for i := 0; i < 200; i++ {
		v.ZoomIn(DefaultNavigation())
	}
	if !(v.Zoom > 0) {
		t.Errorf("zoom should stay positive, got %g", v.Zoom)
	}
}

func TestPanStepWraps(t *testing.T) {
	nav := DefaultNavigation()

	tests := []struct {
		name           string
		re, im         float64
		wantRe, wantIm float64
	}{
		{"re at upper bound", 1.0, 0.0, -0.999, -0.02},
		{"im at lower bound", 0.0, -1.0, 0.01, 0.998},
		{"both wrap", 0.995, -0.99, -0.999, 0.998},
		{"re below lower bound", -1.02, 0.5, 0.999, 0.48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Viewport{CenterRe: tt.re, CenterIm: tt.im, Zoom: 1}
			v.PanStep(nav)

			if math.Abs(v.CenterRe-tt.wantRe) > 1e-12 {
				t.Errorf("re: expected %f, got %f", tt.wantRe, v.CenterRe)
			}
			if math.Abs(v.CenterIm-tt.wantIm) > 1e-12 {
				t.Errorf("im: expected %f, got %f", tt.wantIm, v.CenterIm)
			}
		})
	}
}

func TestPanStepExactWrapTarget(t *testing.T) {
	v := Viewport{CenterRe: 1.0, Zoom: 2}
	v.PanStep(DefaultNavigation())
	if v.CenterRe != -0.999 {
		t.Errorf("expected exactly -0.999, got %v", v.CenterRe)
	}
}

func TestPanStepStaysInBounds(t *testing.T) {
	v := DefaultViewport()
	nav := DefaultNavigation()
	for i := 0; i < 1000; i++ {
		v.PanStep(nav)
		if v.CenterRe <= -1 || v.CenterRe >= 1.0+nav.PanRe {
			t.Fatalf("step %d: re out of range: %f", i, v.CenterRe)
		}
		if math.Abs(v.CenterIm) > 1 {
			t.Fatalf("step %d: im out of range: %f", i, v.CenterIm)
		}
	}
}

func TestPanStepCustomNavigation(t *testing.T) {
	nav := DefaultNavigation()
	nav.WrapRe = 1.0
	v := Viewport{CenterRe: 1.0, Zoom: 1}
	v.PanStep(nav)
	if v.CenterRe != -1.0 {
		t.Errorf("expected -1.0 with custom wrap target, got %f", v.CenterRe)
	}
}

func TestPanOffsetUnbounded(t *testing.T) {
	v := DefaultViewport()
	for i := 0; i < 1000; i++ {
		v.PanOffset(10, -10)
	}
	if v.OffsetX != 10000 || v.OffsetY != -10000 {
		t.Errorf("expected offset (10000,-10000), got (%d,%d)", v.OffsetX, v.OffsetY)
	}
}

func TestApplyCommands(t *testing.T) {
	nav := DefaultNavigation()
	v := DefaultViewport()

	v.Apply(Zoom(), nav)
	v.Apply(Pan(), nav)
	v.Apply(Shift(3, -4), nav)

	if math.Abs(v.Zoom-1.7) > 1e-12 {
		t.Errorf("expected zoom 1.7, got %f", v.Zoom)
	}
	if math.Abs(v.CenterRe-(-0.79)) > 1e-12 || math.Abs(v.CenterIm-0.136) > 1e-12 {
		t.Errorf("unexpected center %f%+fi", v.CenterRe, v.CenterIm)
	}
	if v.OffsetX != 3 || v.OffsetY != -4 {
		t.Errorf("expected offset (3,-4), got (%d,%d)", v.OffsetX, v.OffsetY)
	}
}

func TestCommandKindString(t *testing.T) {
	if PanStep.String() != "pan" || ZoomIn.String() != "zoom" || OffsetBy.String() != "offset" {
		t.Error("unexpected command names")
	}
}
