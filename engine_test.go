package stream

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/stream/metrics"
)

func TestEnginePull_RecordsMetricsAcrossAltRegions(t *testing.T) {
	provider := metrics.NewBasicProvider()
	e := NewEngine(WithMetrics(provider))

	got, err := EngineCollect(e, context.Background(), Alt[int](rangeStream(0, 3), rangeStream(3, 6)))
	require.NoError(t, err)
	require.Len(t, got, 6)

	started, ok := provider.Counter("stream_regions_started").(*metrics.BasicCounter)
	require.True(t, ok)
	require.GreaterOrEqual(t, started.Snapshot(), int64(1))

	drained, ok := provider.Counter("stream_regions_drained").(*metrics.BasicCounter)
	require.True(t, ok)
	require.Equal(t, started.Snapshot(), drained.Snapshot())
}

func TestEnginePull_RecyclesThreadSetsThroughPool(t *testing.T) {
	e := NewEngine()

	for i := 0; i < 5; i++ {
		got, err := EngineCollect(e, context.Background(), Alt[int](rangeStream(0, 2), rangeStream(2, 4)))
		require.NoError(t, err)
		require.Len(t, got, 4)
	}
}

func TestEnginePull_PropagatesErrorsAndLogsThem(t *testing.T) {
	rec := &recordingLogger{}
	e := NewEngine(WithLogger(rec))

	err := EnginePull(e, context.Background(), rangeStream(0, 3), func(int) error {
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.NotEmpty(t, rec.errorfCalls)
}

func TestEngineClose_RejectsFurtherPullCalls(t *testing.T) {
	e := NewEngine()

	got, err := EngineCollect(e, context.Background(), rangeStream(0, 3))
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.NoError(t, e.Close())

	_, err = EngineCollect(e, context.Background(), rangeStream(0, 3))
	require.ErrorIs(t, err, ErrEngineClosed)
}

func TestEngineClose_IsIdempotentAndConcurrencySafe(t *testing.T) {
	rec := &recordingLogger{}
	e := NewEngine(WithLogger(rec))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, e.Close())
		}()
	}
	wg.Wait()

	require.True(t, e.closed.Load())
}

type recordingLogger struct {
	errorfCalls []string
}

func (r *recordingLogger) Debugf(string, ...any) {}
func (r *recordingLogger) Infof(string, ...any)  {}
func (r *recordingLogger) Errorf(format string, args ...any) {
	r.errorfCalls = append(r.errorfCalls, formatMsg(format, args...))
}
