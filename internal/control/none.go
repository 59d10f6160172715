package control

import "github.com/san-kum/juliaset/internal/fractal"

// Pilot yields the commands to apply before a frame is computed.
type Pilot interface {
	Commands(frame uint64) []fractal.Command
}

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Commands(frame uint64) []fractal.Command {
	return nil
}
