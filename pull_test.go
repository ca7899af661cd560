package stream

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPull_ContextCanceledBeforeFirstStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Pull(ctx, rangeStream(0, 3), func(int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestPull_AltWithInfiniteSiblingStillDeliversFiniteBranch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	counter := 0
	infinite := Lift(func(ctx context.Context) (int, error) {
		counter++
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Hour):
			return counter, nil
		}
	})

	finite := rangeStream(0, 5)

	seen := map[int]bool{}
	var mu sync.Mutex
	// infinite is enqueued first: Alt's sole initial worker dequeues FIFO,
	// so it blocks on infinite immediately, and only the puller's
	// demand-driven spawn (work queued, nothing coming out) rescues finite
	// from starvation — the scenario this test is meant to exercise.
	err := Pull(ctx, Alt[int](infinite, finite), func(v int) error {
		mu.Lock()
		seen[v] = true
		mu.Unlock()
		if len(seen) == 5 {
			cancel()
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	got := make([]int, 0, len(seen))
	for v := range seen {
		got = append(got, v)
	}
	sort.Ints(got)
	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
}
