package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConcurrencyDefaultsToHardwareConcurrencyWhenUnset(t *testing.T) {
	require.Greater(t, Concurrency(0), 0)
	require.Equal(t, 4, Concurrency(4))
}

func TestRunReturnsResultsInLexicographicPathOrder(t *testing.T) {
	tasks := []Task[string]{
		{Path: "c.bin", Run: func(ctx context.Context, path string) (string, error) { return path, nil }},
		{Path: "a.bin", Run: func(ctx context.Context, path string) (string, error) { return path, nil }},
		{Path: "b.bin", Run: func(ctx context.Context, path string) (string, error) { return path, nil }},
	}
	results := Run(context.Background(), tasks, 2)
	require.Len(t, results, 3)
	require.Equal(t, "a.bin", results[0].Path)
	require.Equal(t, "b.bin", results[1].Path)
	require.Equal(t, "c.bin", results[2].Path)
	for _, r := range results {
		require.Equal(t, r.Path, r.Value)
		require.NoError(t, r.Err)
	}
}

func TestRunBoundsConcurrentInFlightTasks(t *testing.T) {
	const (
		numTasks    = 20
		concurrency = 3
	)
	var inFlight, maxInFlight int32
	release := make(chan struct{})

	tasks := make([]Task[int], numTasks)
	for i := 0; i < numTasks; i++ {
		tasks[i] = Task[int]{
			Path: string(rune('a' + i)),
			Run: func(ctx context.Context, path string) (int, error) {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					old := atomic.LoadInt32(&maxInFlight)
					if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
						break
					}
				}
				<-release
				atomic.AddInt32(&inFlight, -1)
				return 0, nil
			},
		}
	}

	done := make(chan []Result[int])
	go func() {
		done <- Run(context.Background(), tasks, concurrency)
	}()

	// Give the pool time to saturate its concurrency slots before releasing.
	time.Sleep(50 * time.Millisecond)
	close(release)
	<-done

	require.LessOrEqual(t, int(atomic.LoadInt32(&maxInFlight)), concurrency)
}

func TestRunOneTaskErrorDoesNotAbortOthers(t *testing.T) {
	tasks := []Task[int]{
		{Path: "ok1", Run: func(ctx context.Context, path string) (int, error) { return 1, nil }},
		{Path: "bad", Run: func(ctx context.Context, path string) (int, error) { return 0, errBad }},
		{Path: "ok2", Run: func(ctx context.Context, path string) (int, error) { return 2, nil }},
	}
	results := Run(context.Background(), tasks, 2)
	require.Len(t, results, 3)
	for _, r := range results {
		if r.Path == "bad" {
			require.Error(t, r.Err)
			continue
		}
		require.NoError(t, r.Err)
	}
}

var errBad = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
