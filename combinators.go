package stream

import "context"

// Empty returns the zero-element Stream: the identity of Append.
func Empty[T any]() Stream[T] { return emptyStream[T]{} }

type emptyStream[T any] struct{}

func (emptyStream[T]) step(context.Context, *region[T]) (StepResult[T], error) {
	return StepResult[T]{Stop: true}, nil
}

// Single returns a Stream that yields exactly v, then stops.
func Single[T any](v T) Stream[T] { return singleStream[T]{v: v} }

type singleStream[T any] struct{ v T }

func (s singleStream[T]) step(_ context.Context, active *region[T]) (StepResult[T], error) {
	return StepResult[T]{Value: s.v, Ctx: active}, nil
}

// Lift runs one effect and yields its result, then stops. eff receives the
// ambient cancellation context threaded through Pull.
func Lift[T any](eff func(context.Context) (T, error)) Stream[T] { return liftStream[T]{eff: eff} }

type liftStream[T any] struct {
	eff func(context.Context) (T, error)
}

func (s liftStream[T]) step(ctx context.Context, active *region[T]) (StepResult[T], error) {
	v, err := s.eff(ctx)
	if err != nil {
		return StepResult[T]{}, err
	}
	return StepResult[T]{Value: v, Ctx: active}, nil
}

// Append is the serial-append monoid: it yields exactly a's values in
// order, then exactly b's. No parallelism is introduced and the active
// region is threaded through unchanged.
func Append[T any](a, b Stream[T]) Stream[T] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return appendStream[T]{a: a, b: b}
}

type appendStream[T any] struct{ a, b Stream[T] }

func (s appendStream[T]) step(ctx context.Context, active *region[T]) (StepResult[T], error) {
	res, err := s.a.step(ctx, active)
	if err != nil {
		return StepResult[T]{}, err
	}
	if res.Stop {
		return s.b.step(ctx, active)
	}

	tail := s.b
	if res.Tail != nil {
		tail = appendStream[T]{a: res.Tail, b: s.b}
	}
	return StepResult[T]{Value: res.Value, Ctx: res.Ctx, Tail: tail}, nil
}

// Bind is sequential, value-dependent composition: for each value v
// produced by a, it yields the values produced by f(v), concatenated in
// order. Bind always resets the active region to nil before running f(v)
// and before continuing with a's tail — parallelism is strictly the
// territory of Alt.
func Bind[T, U any](a Stream[T], f func(T) Stream[U]) Stream[U] {
	return bindStream[T, U]{a: a, f: f}
}

type bindStream[T, U any] struct {
	a Stream[T]
	f func(T) Stream[U]
}

func (s bindStream[T, U]) step(ctx context.Context, _ *region[U]) (StepResult[U], error) {
	select {
	case <-ctx.Done():
		return StepResult[U]{}, ctx.Err()
	default:
	}

	res, err := s.a.step(ctx, nil)
	if err != nil {
		return StepResult[U]{}, err
	}
	if res.Stop {
		return StepResult[U]{Stop: true}, nil
	}

	head := s.f(res.Value)
	rest := head
	if res.Tail != nil {
		rest = appendStream[U]{a: head, b: bindStream[T, U]{a: res.Tail, f: s.f}}
	}
	return rest.step(ctx, nil)
}

// Alt is opportunistic-parallel alternation: it yields the multiset-union
// of a's and b's values in unspecified order. If no region is active, it
// starts one — creating it, enqueuing both operands, forking an initial
// worker, and returning a pulling Stream bound to it. If a region is
// already active, both operands are enqueued onto it and a dequeue-loop
// Stream drains it inline, so nested alternations reuse the enclosing
// region rather than spawning one per level.
func Alt[T any](a, b Stream[T]) Stream[T] { return altStream[T]{a: a, b: b} }

type altStream[T any] struct{ a, b Stream[T] }

func (s altStream[T]) step(ctx context.Context, active *region[T]) (StepResult[T], error) {
	if active == nil {
		r := newRegion[T](ctx)
		r.enqueueWork(s.a)
		r.enqueueWork(s.b)
		r.forkInitialWorker()
		return newPuller[T](r).step(r.ctx, nil)
	}

	active.enqueueWork(s.a)
	active.enqueueWork(s.b)
	return (dequeueLoopStream[T]{}).step(ctx, active)
}

// forcedAlt is forced-parallel alternation: it always forks one extra
// worker (reported through a Create event) before enqueuing its left
// operand. The right operand is enqueued first and the work queue is FIFO,
// so the extra worker is not bound to the left operand: whichever worker
// dequeues it runs it, and under an active region the inline dequeue loop
// may run it itself. It is not exported as a public primitive; the related
// on-demand mechanism is region.enqueueWork, which forks a worker whenever
// the work queue is full.
func forcedAlt[T any](a, b Stream[T]) Stream[T] { return forcedAltStream[T]{a: a, b: b} }

type forcedAltStream[T any] struct{ a, b Stream[T] }

func (s forcedAltStream[T]) step(ctx context.Context, active *region[T]) (StepResult[T], error) {
	if active == nil {
		r := newRegion[T](ctx)
		r.enqueueWork(s.b)
		r.forkWorker() // extra worker, forked before the left operand is queued
		r.work <- s.a
		r.forkInitialWorker()
		return newPuller[T](r).step(r.ctx, nil)
	}

	active.enqueueWork(s.b)
	active.forkWorker()
	active.work <- s.a
	return (dequeueLoopStream[T]{}).step(ctx, active)
}

// dequeueLoopStream implements Alt's second case: it drains one item from
// the active region's work queue inline, driving it to its first value
// (or, if it turns out empty, trying the next queued item), rather than
// spawning a goroutine — serial pieces nested under parallel ones run
// inline within a worker instead of getting their own goroutine.
type dequeueLoopStream[T any] struct{}

func (dequeueLoopStream[T]) step(ctx context.Context, active *region[T]) (StepResult[T], error) {
	for {
		select {
		case <-ctx.Done():
			return StepResult[T]{}, ctx.Err()
		default:
		}

		s, ok := active.tryDequeueWork()
		if !ok {
			return StepResult[T]{Stop: true}, nil
		}

		res, err := s.step(ctx, active)
		if err != nil {
			return StepResult[T]{}, err
		}
		if res.Stop {
			continue
		}

		tail := Stream[T](dequeueLoopStream[T]{})
		if res.Tail != nil {
			tail = appendStream[T]{a: res.Tail, b: dequeueLoopStream[T]{}}
		}
		return StepResult[T]{Value: res.Value, Ctx: active, Tail: tail}, nil
	}
}
