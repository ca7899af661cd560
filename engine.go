package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/stream/metrics"
	"github.com/ygrebnov/stream/pool"
)

// Engine is a long-lived supervisor for repeated Pull calls, adapting this
// family's workers.Workers[R] + lifecycle.go shape to a lazy-stream world:
// instead of a fresh one-shot driver per call, it owns a metrics.Provider,
// a Logger, and a pool.Pool that recycles per-region bookkeeping, so a
// process making many short Pull calls amortizes allocation and reports
// consistent instrumentation across all of them.
//
// Engine itself holds no per-call state and is safe for concurrent use:
// EnginePull may be called from multiple goroutines, each driving its own
// independent region tree.
type Engine struct {
	metrics metrics.Provider
	logger  Logger

	// poolMu guards pool against the race between Close's teardown write
	// and a concurrent EnginePull's read; every other field is fixed at
	// construction time by NewEngine and never mutated afterward.
	poolMu sync.RWMutex
	pool   pool.Pool

	poolSelected poolSelected

	closeOnce sync.Once
	closed    atomic.Bool
}

func (e *Engine) currentPool() pool.Pool {
	e.poolMu.RLock()
	defer e.poolMu.RUnlock()
	return e.pool
}

// NewEngine constructs an Engine from opts. Its defaults — a no-op
// metrics.Provider, a no-op Logger, and a dynamic (GC-reclaimable) pool —
// make an unconfigured Engine behave like a bare package-level Pull call.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		metrics: metrics.NewNoopProvider(),
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = pool.NewDynamic(func() interface{} { return newThreadSets() })
	}
	return e
}

// Metrics returns the Engine's configured metrics.Provider.
func (e *Engine) Metrics() metrics.Provider { return e.metrics }

// Logger returns the Engine's configured Logger.
func (e *Engine) Logger() Logger { return e.logger }

// Close mirrors lifecycleCoordinator.Close()'s once-only, ordered teardown:
// safe for concurrent calls, and its sequence runs exactly once no matter
// how many goroutines call it. It marks e closed, so every subsequent
// EnginePull/EngineCollect call fails fast with ErrEngineClosed instead of
// recycling state through a pool the caller has already decided to retire,
// then releases e's pool.Pool reference so its held values become eligible
// for garbage collection. Close never blocks on in-flight Pull calls: each
// owns its own region tree, already fully drained or canceled by the time
// Pull returns, so there is nothing left for Close itself to wait on.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		e.logger.Infof("stream: engine closed")
		e.poolMu.Lock()
		e.pool = nil
		e.poolMu.Unlock()
	})
	return nil
}

// EnginePull drives s to completion through e: every region the call
// creates reports through e's metrics.Provider and Logger, its
// per-region thread-accounting state is recycled through e's pool.Pool
// instead of freshly allocated, and the call's own wall-clock duration is
// recorded as a histogram observation. Go forbids generic methods on a
// concrete receiver, so this is a package-level function taking *Engine
// explicitly rather than an Engine.Pull method.
func EnginePull[T any](e *Engine, ctx context.Context, s Stream[T], yield func(T) error) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	start := time.Now()
	ctx = withInstrumentation(ctx, &instrumentation{
		metrics: e.metrics,
		logger:  e.logger,
		pool:    e.currentPool(),
	})

	err := Pull(ctx, s, yield)

	e.metrics.Histogram("stream_pull_duration_seconds").Record(time.Since(start).Seconds())
	if err != nil {
		e.logger.Errorf("stream: pull failed: %v", err)
	}
	return err
}

// EngineCollect is EnginePull's Collect-style convenience wrapper.
func EngineCollect[T any](e *Engine, ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	err := EnginePull(e, ctx, s, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
