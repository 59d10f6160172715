// Package compute provides the fork-join scheduler used to fill a frame.
//
// A raster is split into disjoint [Region] values by a [Plan]:
//
//   - [Sequential]: one region, run inline
//   - [Rows]: one region per scanline
//   - [Bands]: contiguous row chunks, one per worker
//   - [Tiles]: square tiles of Plan.TileSize pixels
//
// A [Pool] runs one task per region on a bounded set of goroutines and
// joins them before returning:
//
//	plan := compute.Plan{Partition: compute.Bands, Workers: 8}
//	regions, _ := plan.Regions(1280, 720)
//	err := compute.NewPool(8).Run(ctx, regions, func(r compute.Region) error {
//		// write only inside r
//		return nil
//	})
//
// # Failure
//
// A panic inside a task is recovered into a [TaskPanic]. All task errors are
// joined with errors.Join; callers should treat any error as a failed frame.
package compute
