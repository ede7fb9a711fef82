// Package worker implements the bounded worker pool the Engine Façade
// uses for analyze_directory (spec.md §5 "The façade dispatches files to
// a bounded worker pool (default = hardware concurrency)").
package worker

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Task is one unit of work dispatched to the pool: a path to analyze and
// the function that analyzes it.
type Task[T any] struct {
	Path string
	Run  func(ctx context.Context, path string) (T, error)
}

// Result pairs a task's path with its outcome, so the caller can recover
// deterministic (lexicographic) output ordering even though tasks
// complete out of order (spec.md §5 "Directory: the aggregated map keys
// are file paths; when serialized, paths are emitted in lexicographic
// order").
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// Concurrency resolves a configured worker count to a usable value:
// hardware concurrency when unset or non-positive (spec.md §5 "default =
// hardware concurrency").
func Concurrency(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.GOMAXPROCS(0)
}

// Run dispatches every task to the pool, bounding in-flight work to
// concurrency slots via a weighted semaphore, and returns one Result per
// task in lexicographic path order. A task's own error never aborts the
// others — only ctx cancellation does (spec.md §7 "one file's failure
// never aborts the batch").
func Run[T any](ctx context.Context, tasks []Task[T], concurrency int) []Result[T] {
	n := Concurrency(concurrency)
	sem := semaphore.NewWeighted(int64(n))
	g, gctx := errgroup.WithContext(context.Background())

	results := make([]Result[T], len(tasks))
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i] = Result[T]{Path: t.Path, Err: err}
				return nil
			}
			defer sem.Release(1)

			taskCtx := ctx
			select {
			case <-ctx.Done():
				results[i] = Result[T]{Path: t.Path, Err: ctx.Err()}
				return nil
			default:
			}
			v, err := t.Run(taskCtx, t.Path)
			results[i] = Result[T]{Path: t.Path, Value: v, Err: err}
			return nil
		})
	}
	// errgroup's Go function above never returns a non-nil error itself
	// (per-task errors are captured in results, not propagated), so Wait
	// only ever reports a scheduling-level failure.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}
