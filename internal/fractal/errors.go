package fractal

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidOptions indicates engine options that fail validation.
	ErrInvalidOptions = errors.New("fractal: invalid options")

	// ErrBufferSize indicates a pixel buffer whose length is not width*height*4.
	ErrBufferSize = errors.New("fractal: pixel buffer has wrong size")

	// ErrNoFrame indicates there is no completed frame to render, either
	// because none was computed yet or because the last one failed.
	ErrNoFrame = errors.New("fractal: no completed frame")
)

// FrameError wraps the failure of a single frame with its context.
type FrameError struct {
	Frame    uint64
	Viewport Viewport
	Wrapped  error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("fractal: frame %d aborted: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
