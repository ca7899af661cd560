package stream

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error this package defines, matching
// the convention the wider worker-pool code in this family uses for
// disambiguating errors across packages.
const Namespace = "stream"

var (
	// ErrTaskPanicked wraps a panic recovered from inside a worker's step.
	// Per the propagation policy, a panic is never recovered silently: it
	// is converted into a Stop event and this error surfaces at the
	// consumer, synchronously, after every sibling of the failing region
	// has been canceled.
	ErrTaskPanicked = errors.New(Namespace + ": task execution panicked")

	// ErrDrainInvariant marks the engine detecting both thread sets empty
	// while the output or work queue was still non-empty. This can only
	// indicate a bug in the engine itself, never a user-visible condition
	// under correct use.
	ErrDrainInvariant = errors.New(Namespace + ": region reported drained with a non-empty queue")

	// ErrEngineClosed is returned by EnginePull/EngineCollect once an
	// Engine's Close has run: a closed Engine refuses further Pull calls
	// rather than silently handing out pool state it no longer owns.
	ErrEngineClosed = errors.New(Namespace + ": engine is closed")
)

// StreamError carries diagnostic metadata about the worker that produced a
// fatal error: which goroutine id failed, the nesting depth of the region
// it failed in, and which underlying cause triggered the region's teardown.
type StreamError struct {
	tid   uint64
	depth int
	cause error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: worker %d (region depth %d): %v", Namespace, e.tid, e.depth, e.cause)
}

func (e *StreamError) Unwrap() error { return e.cause }

// WorkerID returns the id of the worker goroutine whose step produced the
// error that tore the region down.
func (e *StreamError) WorkerID() uint64 { return e.tid }

// Depth returns the nesting depth of the region that failed: 1 for a
// top-level Alt, incrementing for every region created from inside another
// region's workers (an Alt reached after a Bind reset). An Alt nested
// directly under an active region reuses that region and its depth.
func (e *StreamError) Depth() int { return e.depth }

func newStreamError(tid uint64, depth int, cause error) error {
	if cause == nil {
		return nil
	}
	return &StreamError{tid: tid, depth: depth, cause: cause}
}
