package utils

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// RowWorkFunc processes the rows [from, to) of an image.
type RowWorkFunc func(ctx context.Context, from, to int) error

// ParallelForEachRowBand splits [0, rows) into at most ParallelFactor contiguous bands and runs
// work on each in its own goroutine. The first error cancels the context handed to the other
// bands and is returned. Panics are turned into errors.
func ParallelForEachRowBand(ctx context.Context, rows int, work RowWorkFunc) error {
	if rows <= 0 {
		return nil
	}
	numBands := ParallelFactor
	if numBands < 1 {
		numBands = 1
	}
	if numBands > rows {
		numBands = rows
	}
	bandSize := rows / numBands
	extra := rows % numBands

	group, groupCtx := errgroup.WithContext(ctx)
	from := 0
	for band := 0; band < numBands; band++ {
		to := from + bandSize
		// hand the remainder out one row at a time to the first bands
		if band < extra {
			to++
		}
		bandFrom, bandTo := from, to
		group.Go(func() (err error) {
			defer func() {
				if thePanic := recover(); thePanic != nil {
					err = fmt.Errorf("got panic processing rows [%d, %d): %v", bandFrom, bandTo, thePanic)
				}
			}()
			return work(groupCtx, bandFrom, bandTo)
		})
		from = to
	}
	return group.Wait()
}
