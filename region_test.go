package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThreadSets_AccountDetectsDrainOnlyWhenBothEmpty(t *testing.T) {
	ts := newThreadSets()
	ts.insertRunning(1)
	ts.insertRunning(2)

	require.False(t, ts.account(1, roleCompletion))
	running, done := ts.sizes()
	require.Equal(t, 1, running)
	require.Equal(t, 0, done)

	require.True(t, ts.account(2, roleCompletion))
}

func TestNewRegion_DepthIncrementsAcrossNesting(t *testing.T) {
	top := newRegion[int](context.Background())
	require.Equal(t, 1, top.depth)

	nested := newRegion[int](top.ctx)
	require.Equal(t, 2, nested.depth)

	grandchild := newRegion[int](nested.ctx)
	require.Equal(t, 3, grandchild.depth)

	// A region derived from a plain, depth-less context starts back at 1.
	sibling := newRegion[int](context.Background())
	require.Equal(t, 1, sibling.depth)
}

func TestThreadSets_CompletionBeforeCreateIsRecordedThenMatched(t *testing.T) {
	ts := newThreadSets()

	// Completion for tid 7 arrives before its own Create event is observed.
	require.False(t, ts.account(7, roleCompletion))
	require.True(t, ts.account(7, roleCreate))
}

func TestThreadSets_Reset(t *testing.T) {
	ts := newThreadSets()
	ts.insertRunning(1)
	ts.account(2, roleCompletion) // records tid 2 into done (completion observed before its create)

	ts.reset()
	running, done := ts.sizes()
	require.Equal(t, 0, running)
	require.Equal(t, 0, done)
}

func TestRegion_CheckDrainedRejectsNonEmptyQueues(t *testing.T) {
	r := newRegion[int](context.Background())
	r.out <- childEvent[int]{kind: evYield, value: 1}

	err := r.checkDrained()
	require.ErrorIs(t, err, ErrDrainInvariant)
}

func TestRegion_EnqueueWorkForksWorkerWhenFull(t *testing.T) {
	r := newRegion[int](context.Background())
	for i := 0; i < queueCapacity; i++ {
		r.work <- Empty[int]()
	}
	require.Equal(t, queueCapacity, len(r.work))

	done := make(chan struct{})
	go func() {
		r.enqueueWork(Empty[int]())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueueWork on a full queue never forked a draining worker")
	}
}
