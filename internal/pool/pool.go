// Package pool provides the bounded fan-out primitive used by every
// remote-call site. Each call site configures its own ceiling; there is no
// global limiter shared across call sites.
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Result pairs one item's outcome with its error. Exactly one of Value and
// Err is meaningful.
type Result[R any] struct {
	Value R
	Err   error
}

// Map runs fn over items with at most limit concurrently in flight.
// Results are index-aligned with items regardless of completion order.
// Failure of one item never cancels or blocks the others; the only way to
// stop early is cancelling ctx, which marks the not-yet-started items with
// the context error. Map returns once every started worker has finished.
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if limit <= 0 {
		limit = 1
	}

	sem := semaphore.NewWeighted(int64(limit))
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for i := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = Result[R]{Err: err}
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			v, err := fn(ctx, items[i])
			results[i] = Result[R]{Value: v, Err: err}
		}(i)
	}
	wg.Wait()

	return results
}

// Errors collects the non-nil errors from a result set, in item order.
func Errors[R any](results []Result[R]) []error {
	var errs []error
	for i := range results {
		if results[i].Err != nil {
			errs = append(errs, results[i].Err)
		}
	}
	return errs
}
