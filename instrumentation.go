package stream

import (
	"context"

	"github.com/ygrebnov/stream/metrics"
	"github.com/ygrebnov/stream/pool"
)

// instrumentation bundles the engine's optional observability seams —
// metrics.Provider, Logger, and a recycling pool.Pool — so a region can
// reach all three without carrying extra fields through every constructor.
// It travels from EnginePull down into nested region creation (Alt,
// Bind's resets) via the context.Context that already threads through
// every step call, rather than as an explicit parameter combinators would
// otherwise need to plumb through signatures fixed to match the exported
// API exactly.
type instrumentation struct {
	metrics metrics.Provider
	logger  Logger

	// pool recycles *threadSets across regions when set by an Engine. A
	// bare Pull call (no Engine) leaves this nil and every region gets a
	// freshly allocated threadSets.
	pool pool.Pool
}

type instrumentationKey struct{}

var noopInstrumentation = &instrumentation{
	metrics: metrics.NewNoopProvider(),
	logger:  noopLogger{},
}

// withInstrumentation attaches inst to ctx for every region subsequently
// created under it.
func withInstrumentation(ctx context.Context, inst *instrumentation) context.Context {
	return context.WithValue(ctx, instrumentationKey{}, inst)
}

// instrumentationFrom recovers the instrumentation attached by EnginePull,
// or the shared no-op instance for a bare Pull call made without an Engine.
func instrumentationFrom(ctx context.Context) *instrumentation {
	if inst, ok := ctx.Value(instrumentationKey{}).(*instrumentation); ok && inst != nil {
		return inst
	}
	return noopInstrumentation
}
