package stream

import (
	"github.com/ygrebnov/stream/metrics"
	"github.com/ygrebnov/stream/pool"
)

// EngineOption configures an Engine. Use NewEngine(opts...) to construct
// one — mirrors this family's NewOptions[R](ctx, opts...) builder.
type EngineOption func(*Engine)

// poolSelected tracks which pool option (if any) has already been applied,
// so WithFixedPool and WithDynamicPool can be diagnosed as conflicting the
// same way this family's WithFixedPool/WithDynamicPool pair does.
type poolSelected int

const (
	poolUnspecified poolSelected = iota
	poolFixed
	poolDynamic
)

// WithFixedPool selects a bounded pool.Fixed of the given capacity (must be
// > 0) for recycling per-region thread-accounting state.
func WithFixedPool(capacity uint) EngineOption {
	return func(e *Engine) {
		if capacity == 0 {
			panic("stream: WithFixedPool requires capacity > 0")
		}
		if e.poolSelected != poolUnspecified && e.poolSelected != poolFixed {
			panic("stream: conflicting pool options: WithFixedPool and WithDynamicPool both specified")
		}
		e.pool = pool.NewFixed(capacity, func() interface{} { return newThreadSets() })
		e.poolSelected = poolFixed
	}
}

// WithDynamicPool selects the GC-reclaimable sync.Pool-backed pool (the
// default if no pool option is given).
func WithDynamicPool() EngineOption {
	return func(e *Engine) {
		if e.poolSelected != poolUnspecified && e.poolSelected != poolDynamic {
			panic("stream: conflicting pool options: WithFixedPool and WithDynamicPool both specified")
		}
		e.pool = pool.NewDynamic(func() interface{} { return newThreadSets() })
		e.poolSelected = poolDynamic
	}
}

// WithMetrics attaches a metrics.Provider; the Engine defaults to a no-op
// provider if this option is never given.
func WithMetrics(p metrics.Provider) EngineOption {
	return func(e *Engine) {
		if p == nil {
			panic("stream: WithMetrics requires a non-nil metrics.Provider")
		}
		e.metrics = p
	}
}

// WithLogger attaches a Logger; the Engine defaults to a no-op Logger if
// this option is never given.
func WithLogger(l Logger) EngineOption {
	return func(e *Engine) {
		if l == nil {
			panic("stream: WithLogger requires a non-nil Logger")
		}
		e.logger = l
	}
}
