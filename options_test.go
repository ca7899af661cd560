package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEngine_DefaultsToDynamicPool(t *testing.T) {
	e := NewEngine()
	require.NotNil(t, e.pool)
	require.Equal(t, poolUnspecified, e.poolSelected)
}

func TestWithFixedPool_RejectsZeroCapacity(t *testing.T) {
	require.PanicsWithValue(t, "stream: WithFixedPool requires capacity > 0", func() {
		NewEngine(WithFixedPool(0))
	})
}

func TestConflictingPoolOptionsPanic(t *testing.T) {
	require.Panics(t, func() {
		NewEngine(WithFixedPool(4), WithDynamicPool())
	})
	require.Panics(t, func() {
		NewEngine(WithDynamicPool(), WithFixedPool(4))
	})
}

func TestRepeatingSamePoolOptionIsNotConflicting(t *testing.T) {
	require.NotPanics(t, func() {
		NewEngine(WithFixedPool(4), WithFixedPool(8))
	})
}

func TestWithMetricsAndWithLoggerRejectNil(t *testing.T) {
	require.Panics(t, func() { NewEngine(WithMetrics(nil)) })
	require.Panics(t, func() { NewEngine(WithLogger(nil)) })
}
