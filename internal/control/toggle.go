package control

import "github.com/san-kum/juliaset/internal/fractal"

// Toggle is the interactive pilot. While zoom or move is on, every frame
// zooms in or pans one step. Nudges are queued and drained on the next frame.
type Toggle struct {
	zoom   bool
	move   bool
	step   int32
	nudges []fractal.Command
}

func NewToggle(step int32) *Toggle {
	if step <= 0 {
		step = fractal.DefaultNavigation().OffsetStep
	}
	return &Toggle{step: step}
}

func (t *Toggle) Zooming() bool { return t.zoom }
func (t *Toggle) Moving() bool  { return t.move }
func (t *Toggle) Step() int32   { return t.step }

func (t *Toggle) SetZoom(on bool) { t.zoom = on }
func (t *Toggle) SetMove(on bool) { t.move = on }

func (t *Toggle) ToggleZoom() bool {
	t.zoom = !t.zoom
	return t.zoom
}

func (t *Toggle) ToggleMove() bool {
	t.move = !t.move
	return t.move
}

// Nudge queues an offset of (dx, dy) steps.
func (t *Toggle) Nudge(dx, dy int32) {
	t.nudges = append(t.nudges, fractal.Shift(dx*t.step, dy*t.step))
}

// Queue adds an arbitrary one-shot command.
func (t *Toggle) Queue(cmd fractal.Command) {
	t.nudges = append(t.nudges, cmd)
}

// Pending reports the number of queued one-shot commands.
func (t *Toggle) Pending() int {
	return len(t.nudges)
}

func (t *Toggle) Commands(frame uint64) []fractal.Command {
	cmds := t.nudges
	t.nudges = nil
	if t.zoom {
		cmds = append(cmds, fractal.Zoom())
	}
	if t.move {
		cmds = append(cmds, fractal.Pan())
	}
	return cmds
}
