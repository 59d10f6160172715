package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/juliaset/internal/config"
	"github.com/san-kum/juliaset/internal/control"
	"github.com/san-kum/juliaset/internal/fractal"
	"github.com/san-kum/juliaset/internal/metrics"
	"github.com/san-kum/juliaset/internal/palette"
)

const (
	defaultCols     = 72
	defaultRows     = 22
	historyCapacity = 120
	tickInterval    = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives one engine from the Bubble Tea event loop. All engine calls
// happen inside Update, so the engine is only ever touched by one goroutine.
type Model struct {
	ctx      context.Context
	eng      *fractal.Engine
	pilot    *control.Toggle
	recorder *metrics.Recorder
	canvas   *Canvas

	buf     []byte
	preview string
	bounded string

	cols, rows int
	running    bool
	braille    bool
	preset     string
	err        error
}

func NewModel(ctx context.Context, eng *fractal.Engine, preset string) Model {
	return Model{
		ctx:      ctx,
		eng:      eng,
		pilot:    control.NewToggle(eng.Navigation().OffsetStep),
		recorder: metrics.NewRecorder(historyCapacity),
		canvas:   NewCanvas(defaultCols, defaultRows),
		buf:      make([]byte, eng.Width()*eng.Height()*4),
		cols:     defaultCols,
		rows:     defaultRows,
		running:  true,
		preset:   preset,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Engine() *fractal.Engine { return m.eng }

func (m Model) Pilot() *control.Toggle { return m.pilot }

func (m Model) Recorder() *metrics.Recorder { return m.recorder }

func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "z":
			m.pilot.ToggleZoom()
		case "m":
			m.pilot.ToggleMove()
		case "p":
			m.pilot.Queue(fractal.Pan())
		case "left", "h":
			m.pilot.Nudge(-1, 0)
		case "right", "l":
			m.pilot.Nudge(1, 0)
		case "up", "k":
			m.pilot.Nudge(0, 1)
		case "down", "j":
			m.pilot.Nudge(0, -1)
		case "n":
			m.nextPreset()
			if !m.running {
				m.step()
			}
		case "c":
			m.nextPalette()
		case "b":
			m.braille = !m.braille
			m.redraw()
		case "t":
			NextTheme()
		}
		if !m.running && m.pilot.Pending() > 0 {
			m.step()
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.redraw()
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step applies the pilot's commands and computes one frame. A failed frame
// leaves the preview untouched.
func (m *Model) step() {
	for _, cmd := range m.pilot.Commands(m.eng.Frames()) {
		m.eng.Navigate(cmd)
	}

	g, err := m.eng.ComputeFrame(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.recorder.Observe(m.eng.Frames(), g, m.eng.Params().MaxIteration, m.eng.LastFrameTime())
	m.redraw()
}

func (m *Model) redraw() {
	if err := m.eng.RenderTo(m.buf); err != nil {
		return
	}
	if m.braille {
		m.canvas.Plot(m.eng.Grid(), m.eng.Params().MaxIteration)
		m.bounded = m.canvas.String()
		return
	}
	m.preview = HalfBlock(m.buf, m.eng.Width(), m.eng.Height(), m.cols, m.rows)
}

func (m *Model) resize(w, h int) {
	m.cols = max(w-statsWidth-6, 8)
	m.rows = max(h-4, 4)
	m.canvas = NewCanvas(m.cols, m.rows)
}

func (m *Model) nextPreset() {
	names := config.ListPresets()
	next := names[0]
	for i, name := range names {
		if name == m.preset {
			next = names[(i+1)%len(names)]
			break
		}
	}
	p := config.GetPreset(next)
	if err := m.eng.SetViewport(fractal.Viewport{CenterRe: p.CenterRe, CenterIm: p.CenterIm, Zoom: p.Zoom}); err != nil {
		m.err = err
		return
	}
	m.preset = next
}

func (m *Model) nextPalette() {
	names := palette.Names()
	current := m.eng.Gradient().Name()
	next := names[0]
	for i, name := range names {
		if name == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	g, _ := palette.Lookup(next)
	m.eng.SetGradient(g)
	m.redraw()
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusStyle("error").Render("FRAME FAILED: " + m.err.Error())
	case !m.running:
		return statusStyle("paused").Render("PAUSED")
	default:
		return statusStyle("running").Render(AnimatedSpinner(m.eng.Frames()) + " RUNNING")
	}
}

func (m Model) View() string {
	var view string
	switch {
	case m.braille && m.bounded != "":
		view = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.bounded)
	case m.preview != "":
		view = m.preview
	default:
		view = "computing first frame..."
	}
	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(view)

	var s strings.Builder
	s.WriteString(headerStyle().Render(GradientText("JULIA SET", CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")
	s.WriteString(m.status() + "\n\n")

	times := m.recorder.FrameTimes()
	if len(times) > 1 {
		chart := asciigraph.Plot(times, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("frame ms"))
		s.WriteString(graphStyle().Render(chart) + "\n\n")
	}

	v := m.eng.Viewport()
	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("c", fmt.Sprintf("%.4f %+.4fi", v.CenterRe, v.CenterIm))
	row("Zoom", fmt.Sprintf("%.6g", v.Zoom))
	row("Offset", fmt.Sprintf("(%d, %d) step %d", v.OffsetX, v.OffsetY, m.pilot.Step()))
	row("Frame", fmt.Sprintf("%d", m.eng.Frames()))
	row("Time", fmt.Sprintf("%.1f ms", float64(m.eng.LastFrameTime().Microseconds())/1000))
	row("Workers", fmt.Sprintf("%d on %d regions", m.eng.Workers(), m.eng.Regions()))
	row("Palette", m.eng.Gradient().Name())
	if m.preset != "" {
		row("Preset", m.preset)
	}

	samples := m.recorder.Samples()
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		row("Mean iter", fmt.Sprintf("%.1f", last.MeanIteration))
		row("Bounded", ProgressBar(last.BoundedFraction, 16))
	}

	toggles := fmt.Sprintf("zoom %s  move %s", onOff(m.pilot.Zooming()), onOff(m.pilot.Moving()))
	s.WriteString("\n" + valueStyle().Render(toggles) + "\n")
	s.WriteString(helpStyle().Render(Separator(statsWidth-6) + "\nZ:Zoom M:Move P:Step ←↑↓→:Shift\nN:Preset C:Palette B:Bounded\nSP:Pause T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle().Render(s.String()))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Run starts the terminal host with m and returns the final model.
func Run(ctx context.Context, m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}
