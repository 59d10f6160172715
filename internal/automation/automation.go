package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/juliaset/internal/config"
	"github.com/san-kum/juliaset/internal/fractal"
)

var ErrUnknownCommand = errors.New("automation: unknown command")

const (
	CommandPan    = "pan"
	CommandZoom   = "zoom"
	CommandOffset = "offset"
	CommandHold   = "hold"
)

// Script is a scripted flight through parameter space.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Preset      string `yaml:"preset"`
	Steps       []Step `yaml:"steps"`
}

// Step applies Command and computes a frame, Repeat times. A hold step
// computes frames without navigating.
type Step struct {
	Command string `yaml:"command"`
	Repeat  int    `yaml:"repeat"`
	DX      int32  `yaml:"dx"`
	DY      int32  `yaml:"dy"`
}

// Observer receives every completed frame of a run.
type Observer interface {
	Observe(frame uint64, g *fractal.Grid, maxIteration int, elapsed time.Duration)
}

// Result summarises a script run.
type Result struct {
	Script   string
	Frames   int
	Elapsed  time.Duration
	Viewport fractal.Viewport
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *Script) Validate() error {
	if s.Preset != "" && config.GetPreset(s.Preset) == nil {
		return fmt.Errorf("unknown preset: %s", s.Preset)
	}
	for i, step := range s.Steps {
		if _, err := step.command(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("step %d: negative repeat %d", i+1, step.Repeat)
		}
	}
	return nil
}

// TotalFrames is the number of frames a run of the script computes.
func (s *Script) TotalFrames() int {
	n := 0
	for _, step := range s.Steps {
		n += step.repeats()
	}
	return n
}

func (st Step) repeats() int {
	if st.Repeat == 0 {
		return 1
	}
	return st.Repeat
}

// command returns the navigation command for the step, or nil for hold.
func (st Step) command() (*fractal.Command, error) {
	var cmd fractal.Command
	switch strings.ToLower(st.Command) {
	case CommandPan:
		cmd = fractal.Pan()
	case CommandZoom:
		cmd = fractal.Zoom()
	case CommandOffset:
		cmd = fractal.Shift(st.DX, st.DY)
	case CommandHold:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, st.Command)
	}
	return &cmd, nil
}

// Run flies the engine through the script. If the script names a preset the
// viewport is reset to it first.
func Run(ctx context.Context, eng *fractal.Engine, script *Script, observers ...Observer) (*Result, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}

	if p := config.GetPreset(script.Preset); p != nil {
		if err := eng.SetViewport(fractal.Viewport{CenterRe: p.CenterRe, CenterIm: p.CenterIm, Zoom: p.Zoom}); err != nil {
			return nil, fmt.Errorf("preset %s: %w", script.Preset, err)
		}
	}

	res := &Result{Script: script.Name}
	maxIteration := eng.Params().MaxIteration
	start := time.Now()

	for i, step := range script.Steps {
		cmd, _ := step.command()
		for n := 0; n < step.repeats(); n++ {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if cmd != nil {
				eng.Navigate(*cmd)
			}

			g, err := eng.ComputeFrame(ctx)
			if err != nil {
				return res, fmt.Errorf("step %d: %w", i+1, err)
			}
			res.Frames++

			for _, o := range observers {
				o.Observe(eng.Frames(), g, maxIteration, eng.LastFrameTime())
			}
		}
	}

	res.Elapsed = time.Since(start)
	res.Viewport = eng.Viewport()
	return res, nil
}
