package compute

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrUnknownPartition is returned when a partition name is not recognised.
var ErrUnknownPartition = errors.New("compute: unknown partition")

// Scheduler runs fn once per region and returns after every started task
// has finished.
type Scheduler interface {
	Name() string
	Workers() int
	Run(ctx context.Context, regions []Region, fn func(Region) error) error
}

// TaskPanic wraps a panic recovered from a single task.
type TaskPanic struct {
	Region Region
	Value  any
	Stack  []byte
}

func (p *TaskPanic) Error() string {
	return fmt.Sprintf("compute: task %v panicked: %v", p.Region, p.Value)
}

func (p *TaskPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// protect runs fn for r, converting a panic into a *TaskPanic.
func protect(r Region, fn func(Region) error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &TaskPanic{Region: r, Value: v, Stack: debug.Stack()}
		}
	}()
	return fn(r)
}

func runSerial(ctx context.Context, regions []Region, fn func(Region) error) error {
	for _, r := range regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := protect(r, fn); err != nil {
			return err
		}
	}
	return nil
}
