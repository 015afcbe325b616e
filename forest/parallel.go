package forest

import (
	"context"
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/tree"
)

/*
GrowParallel grows the same forest Grow does with a fixed pool of worker
goroutines that take the indexes of the trees to grow from a shared queue.
Every tree is written to its own slot, so no locking is needed, and the
forest is returned once all workers are done.

Workers default to the number of CPUs when not positive. The first error
stops the remaining workers and is returned, as is the context error if the
context ends before the forest is grown.
*/
func GrowParallel(ctx context.Context, attrs feature.Domain, ds *dataset.Dataset, size, n, m int, rng *rand.Rand, workers int) (*Forest, error) {
	b, err := newBuilder(attrs, ds, size, n, m, rng)
	if err != nil {
		return nil, err
	}
	workers = poolSize(workers, size)
	trees := make([]*tree.Tree, size)
	indexes := make(chan int, size)
	for i := range trees {
		indexes <- i
	}
	close(indexes)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indexes {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := b.grow(i)
				if err != nil {
					return err
				}
				trees[i] = t
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return &Forest{trees: trees}, nil
}

/*
TestParallel returns the same count Test does, splitting the samples of the
dataset into contiguous ranges tested by a pool of worker goroutines. Each
worker counts its correct decisions locally and adds them once to the shared
total when it finishes its range.
*/
func (f *Forest) TestParallel(ctx context.Context, ds *dataset.Dataset, workers int) (int, error) {
	total := ds.Count()
	workers = poolSize(workers, total)
	var correct int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo, hi := w*total/workers, (w+1)*total/workers
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := f.testRange(ds, lo, hi)
			if err != nil {
				return err
			}
			atomic.AddInt64(&correct, int64(c))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(correct), nil
}

func poolSize(workers, tasks int) int {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > tasks {
		workers = tasks
	}
	return workers
}
