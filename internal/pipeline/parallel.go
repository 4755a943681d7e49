package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map runs fn over every input with bounded parallelism and returns the
// results in input order. The first error cancels the remaining calls.
func Map[T, R any](ctx context.Context, in []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, item := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
