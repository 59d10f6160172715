package compute

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool is a bounded fork-join scheduler. Each call to Run fans the regions
// out to at most Workers goroutines and joins them before returning.
type Pool struct {
	workers int
}

// NewPool returns a pool with the given number of workers. A non-positive
// count selects runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

func (p *Pool) Name() string { return "cpu" }
func (p *Pool) Workers() int { return p.workers }

// Run calls fn for every region. Tasks own their region exclusively, so fn
// needs no locking as long as it writes only inside the region it was given.
//
// Every task failure, including a recovered panic, is joined into the
// returned error. Once a task fails or ctx is done, tasks that have not
// started yet are skipped.
func (p *Pool) Run(ctx context.Context, regions []Region, fn func(Region) error) error {
	if len(regions) == 0 {
		return nil
	}
	if p.workers == 1 || len(regions) == 1 {
		return runSerial(ctx, regions, fn)
	}

	errs := make([]error, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, r := range regions {
		i, r := i, r
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			errs[i] = protect(r, fn)
			return errs[i]
		})
	}

	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	return ctx.Err()
}
