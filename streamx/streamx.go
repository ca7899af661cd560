// Package streamx collects map/filter/fold-style helpers built entirely
// atop the core stream package's combinators, the way this family builds
// its higher-level fan-out helpers (map.go, foreach.go, run_stream.go) on
// top of a lower-level dispatch primitive rather than duplicating queue or
// worker logic.
package streamx

import (
	"context"

	"github.com/ygrebnov/stream"
)

// Map transforms every value s produces through f, preserving whatever
// order and parallelism s itself exhibits (Map never introduces an Alt of
// its own).
func Map[T, U any](s stream.Stream[T], f func(T) U) stream.Stream[U] {
	return stream.Bind(s, func(v T) stream.Stream[U] {
		return stream.Single(f(v))
	})
}

// Filter keeps only the values of s for which pred returns true.
func Filter[T any](s stream.Stream[T], pred func(T) bool) stream.Stream[T] {
	return stream.Bind(s, func(v T) stream.Stream[T] {
		if pred(v) {
			return stream.Single(v)
		}
		return stream.Empty[T]()
	})
}

// Fold drains s and folds its values into a single accumulator in
// whatever order Pull delivers them — for a purely serial s (no Alt) that
// order is s's own production order; across an Alt it is unspecified, so
// step should be written commutative/associative if s may contain one.
func Fold[T, A any](ctx context.Context, s stream.Stream[T], init A, step func(A, T) A) (A, error) {
	acc := init
	err := stream.Pull(ctx, s, func(v T) error {
		acc = step(acc, v)
		return nil
	})
	return acc, err
}

// FromSlice returns a Stream that yields each element of vs in order, then
// stops. It is built entirely from Append and Single — streamx has no
// access to the core package's unexported Stream.step method, so every
// helper here composes exported combinators rather than implementing
// Stream itself.
func FromSlice[T any](vs []T) stream.Stream[T] {
	var s stream.Stream[T] = stream.Empty[T]()
	for i := len(vs) - 1; i >= 0; i-- {
		s = stream.Append(stream.Single(vs[i]), s)
	}
	return s
}

// Range returns a Stream yielding the half-open integer interval [lo, hi)
// in ascending order. Used throughout this package's own tests as a finite
// generator for the Map/Filter/Fold exercises.
func Range(lo, hi int) stream.Stream[int] {
	if lo >= hi {
		return stream.Empty[int]()
	}
	vs := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		vs = append(vs, i)
	}
	return FromSlice(vs)
}
