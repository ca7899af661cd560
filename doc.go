// Package stream provides a composable abstraction for producing,
// combining, and consuming possibly-infinite sequences of values, where
// production steps may run serially, may run concurrently, or must run
// concurrently, under the control of a demand-driven scheduler.
//
// A Stream[T] is a lazy producer: pulling it drives one step, yielding at
// most one value plus a tail for the rest. Three combinators compose
// Streams:
//
//   - Append: serial concatenation (a monoid; Empty is the identity).
//   - Bind: sequential, value-dependent composition. Bind always resets
//     the active parallel region, so parallelism is strictly the
//     territory of Alt.
//   - Alt: opportunistic-parallel alternation. The engine decides whether
//     operands run inline, interleaved on one goroutine, or in parallel
//     across several; no ordering between them is guaranteed.
//
// Pull drives a Stream to completion. Errors — a user step's own error, a
// recovered panic, or an engine invariant violation — surface synchronously
// from Pull, with every goroutine spawned for the failing region joined or
// canceled first.
//
// Construction
//
// Empty, Single, Lift, Append, Bind, and Alt are the building blocks. The
// streamx package layers Map/Filter/Fold/generators on top of them; the
// core package itself stays free of those conveniences by design.
//
// Concurrency model
//
// Queue capacities (32) and the puller's backoff (a few microseconds) are
// fixed engine constants, not exposed knobs. There is no cancellation
// primitive beyond the context.Context passed to Pull and the error-driven
// region teardown.
package stream
