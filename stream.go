package stream

import "context"

// Stream is a lazy producer of a sequence of values of type T.
//
// step drives exactly one production step. ctx is the ambient
// cancellation context (threaded unchanged by Append and Bind; an Alt that
// starts a region steps its pulling Stream with that region's derived
// context, and workers step with it too); active is
// the scheduling region currently in force, or nil if no parallel region is
// active (crossing a Bind boundary, or the top of a Pull, resets it to nil).
//
// This collapses two explicit continuations (stop, yield) into the single
// StepResult sum type a step returns: the two continuations become normal
// control flow at the call site instead of callback arguments.
type Stream[T any] interface {
	step(ctx context.Context, active *region[T]) (StepResult[T], error)
}

// StepResult is the outcome of one Stream step: either the sequence has
// stopped (Stop == true, no value produced), or it produced Value along
// with the region to thread forward (Ctx, possibly nil) and, unless Tail is
// nil, a Stream for the remaining values.
//
// Invariant S1: a nil Tail alongside a produced Value is not the same as
// Stop — it distinguishes "this was the last value" from "there was no
// value at all", which lets fold-style consumers avoid one extra step call
// per terminated branch.
type StepResult[T any] struct {
	Stop  bool
	Value T
	Ctx   *region[T]
	Tail  Stream[T]
}
