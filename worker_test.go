package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type panicStream struct{}

func (panicStream) step(context.Context, *region[int]) (StepResult[int], error) {
	panic("boom")
}

func TestWorker_SafeStepRecoversPanic(t *testing.T) {
	w := newWorker[int](1)
	r := newRegion[int](context.Background())

	_, err := w.safeStep(context.Background(), panicStream{}, r)
	require.ErrorIs(t, err, ErrTaskPanicked)
}

func TestWorker_DriveEmitsDoneWhenChainEndsWithValueAndNoTail(t *testing.T) {
	w := newWorker[int](1)
	r := newRegion[int](context.Background())

	done := w.drive(context.Background(), r, Single(42))
	require.True(t, done)

	ev := <-r.out
	require.Equal(t, evDone, ev.kind)
	require.Equal(t, 42, ev.value)
}

func TestWorker_DriveReturnsFalseWhenChainNeverProducesAValue(t *testing.T) {
	w := newWorker[int](1)
	r := newRegion[int](context.Background())

	done := w.drive(context.Background(), r, Empty[int]())
	require.False(t, done)
}

func TestWorker_RunExitsWithStopOnEmptyQueue(t *testing.T) {
	r := newRegion[int](context.Background())
	w := newWorker[int](1)

	w.run(context.Background(), r)

	ev := <-r.out
	require.Equal(t, evStop, ev.kind)
	require.NoError(t, ev.err)
}
