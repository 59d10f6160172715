package viz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/juliaset/internal/fractal"
)

func newModel(t *testing.T, ctx context.Context) Model {
	t.Helper()
	eng, err := fractal.New(fractal.DefaultOptions(40, 20))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewModel(ctx, eng, "classic")
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHalfBlock(t *testing.T) {
	buf := make([]byte, 4*4*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = 10, 20, 30, 255
	}

	out := HalfBlock(buf, 4, 4, 3, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if n := strings.Count(line, halfBlock); n != 3 {
			t.Errorf("row %d: expected 3 cells, got %d", i, n)
		}
	}

	if HalfBlock(buf, 4, 4, 0, 2) != "" {
		t.Error("expected empty output for zero columns")
	}
	if HalfBlock(buf[:10], 4, 4, 2, 2) != "" {
		t.Error("expected empty output for a short buffer")
	}
}

func TestPixelColor(t *testing.T) {
	buf := []byte{0, 0, 0, 255, 0xab, 0x0c, 0xff, 255}
	if got := pixelColor(buf, 2, 1, 0); string(got) != "#ab0cff" {
		t.Errorf("expected #ab0cff, got %s", got)
	}
}

func TestCanvasPlot(t *testing.T) {
	g := fractal.NewGrid(4, 4)
	for y := 0; y < 4; y++ {
		row := g.Row(y)
		row[0], row[1] = 50, 50
	}

	c := NewCanvas(1, 1)
	c.Plot(g, 50)
	if got, want := c.Grid[0][0], rune(brailleBlank|0x47); got != want {
		t.Errorf("expected %U, got %U", want, got)
	}

	c.Plot(nil, 50)
	if c.Grid[0][0] != brailleBlank {
		t.Error("nil grid should clear the canvas")
	}
}

func TestCanvasSetBounds(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.String() != string([]rune{brailleBlank, brailleBlank}) {
		t.Errorf("out of range dots should be ignored, got %q", c.String())
	}
	c.Set(3, 3)
	if c.Grid[0][1] != brailleBlank|0x80 {
		t.Errorf("expected dot 8 in second cell, got %U", c.Grid[0][1])
	}
}

func TestModelTick(t *testing.T) {
	m := newModel(t, context.Background())
	if m.Init() == nil {
		t.Fatal("expected a tick command")
	}

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.Engine().Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", m.Engine().Frames())
	}
	if len(m.Recorder().Samples()) != 1 {
		t.Errorf("expected 1 recorded sample, got %d", len(m.Recorder().Samples()))
	}
	if !strings.Contains(m.View(), "Zoom") {
		t.Error("view should include the stats panel")
	}
}

func TestModelToggles(t *testing.T) {
	m := newModel(t, context.Background())
	m = update(m, key("z"))
	if !m.Pilot().Zooming() {
		t.Fatal("z should enable zoom")
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(m, TickMsg(time.Now()))

	v := m.Engine().Viewport()
	if v.Zoom < 1.7-1e-12 || v.Zoom > 1.7+1e-12 {
		t.Errorf("expected zoom 1.7, got %f", v.Zoom)
	}
	if v.OffsetX != -10 {
		t.Errorf("expected offset -10, got %d", v.OffsetX)
	}
}

func TestModelStartToggles(t *testing.T) {
	m := newModel(t, context.Background())
	m.Pilot().SetMove(true)
	m = update(m, TickMsg(time.Now()))

	if re := m.Engine().Viewport().CenterRe; re < -0.79-1e-12 || re > -0.79+1e-12 {
		t.Errorf("expected re -0.79 after one pan, got %f", re)
	}
	if m.Engine().Viewport().Zoom != 2.0 {
		t.Errorf("zoom should stay off, got %f", m.Engine().Viewport().Zoom)
	}
	if !strings.Contains(m.View(), "step 10") {
		t.Error("view should show the offset step")
	}
}

func TestModelArrowKeys(t *testing.T) {
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		dx, dy int32
	}{
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, -10, 0},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, 10, 0},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, 0, 10},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, 0, -10},
		{"vi up", key("k"), 0, 10},
		{"vi down", key("j"), 0, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, context.Background())
			m = update(m, key(" "))
			m = update(m, tt.msg)

			v := m.Engine().Viewport()
			if v.OffsetX != tt.dx || v.OffsetY != tt.dy {
				t.Errorf("expected offset (%d,%d), got (%d,%d)", tt.dx, tt.dy, v.OffsetX, v.OffsetY)
			}
			if m.Engine().Frames() != 1 {
				t.Errorf("paused nudge should step one frame, got %d", m.Engine().Frames())
			}
		})
	}
}

func TestModelPause(t *testing.T) {
	m := newModel(t, context.Background())
	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))
	if m.Engine().Frames() != 0 {
		t.Fatalf("paused model computed %d frames", m.Engine().Frames())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show the paused status")
	}

	m = update(m, key("p"))
	if m.Engine().Frames() != 1 {
		t.Fatalf("single step should compute a frame while paused, got %d", m.Engine().Frames())
	}
	if re := m.Engine().Viewport().CenterRe; re < -0.79-1e-12 || re > -0.79+1e-12 {
		t.Errorf("expected re -0.79, got %f", re)
	}
}

func TestModelFrameError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newModel(t, ctx)
	cancel()

	m = update(m, TickMsg(time.Now()))
	if m.Err() == nil {
		t.Fatal("expected a frame error")
	}
	if !strings.Contains(m.View(), "FRAME FAILED") {
		t.Error("view should report the failed frame")
	}
	if len(m.Recorder().Samples()) != 0 {
		t.Error("failed frames must not be recorded")
	}
}

func TestModelPresetAndPalette(t *testing.T) {
	m := newModel(t, context.Background())
	m = update(m, key("n"))
	if v := m.Engine().Viewport(); v.CenterRe != 0 || v.CenterIm != 1 {
		t.Errorf("expected dendrite after classic, got %+v", v)
	}

	m = update(m, key("c"))
	if name := m.Engine().Gradient().Name(); name != "grayscale" {
		t.Errorf("expected grayscale after cubehelix, got %s", name)
	}
}

func TestModelQuit(t *testing.T) {
	m := newModel(t, context.Background())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestBrailleView(t *testing.T) {
	m := newModel(t, context.Background())
	m = update(m, TickMsg(time.Now()))
	m = update(m, key("b"))
	if m.bounded == "" {
		t.Error("braille view should be drawn from the last frame")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeNebula.Name)

	NextTheme()
	if CurrentTheme.Name != ThemeRetroGreen.Name {
		t.Errorf("expected retro, got %s", CurrentTheme.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(ThemeNebula.Name)

	if err := SetTheme(ThemeSunset.Name); err != nil {
		t.Fatalf("set %s: %v", ThemeSunset.Name, err)
	}
	if CurrentTheme.Name != ThemeSunset.Name {
		t.Errorf("expected sunset, got %s", CurrentTheme.Name)
	}

	err := SetTheme("solarized")
	if !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if !strings.Contains(err.Error(), ThemeMinimal.Name) {
		t.Errorf("error should list the available themes: %v", err)
	}
	if CurrentTheme.Name != ThemeSunset.Name {
		t.Errorf("unknown theme should keep sunset, got %s", CurrentTheme.Name)
	}
}

func TestGradientText(t *testing.T) {
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("expected empty output")
	}
	out := GradientText("ab", "nope", "#ffffff")
	if !strings.Contains(out, "ab") {
		t.Errorf("fallback should keep the text, got %q", out)
	}
}

func BenchmarkHalfBlock(b *testing.B) {
	buf := make([]byte, 320*180*4)
	for i := 0; i < b.N; i++ {
		HalfBlock(buf, 320, 180, 72, 22)
	}
}
