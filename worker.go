package stream

import (
	"context"
	"fmt"
)

// worker is the push side of the engine: an OS-level goroutine that
// repeatedly dequeues a pending Stream from its region's work queue and
// drives it to a terminal event.
type worker[T any] struct {
	tid uint64
}

func newWorker[T any](tid uint64) *worker[T] { return &worker[T]{tid: tid} }

// run implements the worker loop. Step 1 is a non-blocking dequeue; an
// empty queue means emit Stop and exit — workers are deliberately
// ephemeral, with the puller's demand-driven heuristic responsible for
// spawning replacements. Each successfully dequeued Stream is driven fully
// by drive; drive reporting "not exited" (its chain stopped without a
// final value) is the recursion point back to step 1 on this same goroutine, letting one
// worker absorb several short-lived branches without a spawn per item.
func (w *worker[T]) run(ctx context.Context, r *region[T]) {
	defer r.inst.metrics.UpDownCounter("stream_workers_running").Add(-1)

	for {
		select {
		case <-ctx.Done():
			r.emit(childEvent[T]{kind: evStop, tid: w.tid, err: ctx.Err()})
			return
		default:
		}

		s, ok := r.tryDequeueWork()
		if !ok {
			r.emit(childEvent[T]{kind: evStop, tid: w.tid})
			return
		}

		if w.drive(ctx, r, s) {
			return
		}
	}
}

// drive runs s, and its lazily produced tail chain, to its first terminal
// event. It emits a Yield event for every value produced before the last,
// then either:
//   - Done(tid, value) and returns true (the chain ended with a value and
//     no tail: "I have no more to do"), or
//   - Stop(tid, err) and returns true (a user step failed), or
//   - returns false (a step of the chain, the dequeued Stream itself or
//     any of its tails, stopped; any values before it went out as Yield
//     events), leaving run to re-dequeue the next item.
func (w *worker[T]) drive(ctx context.Context, r *region[T], s Stream[T]) bool {
	cur := s
	active := r

	for {
		select {
		case <-ctx.Done():
			r.emit(childEvent[T]{kind: evStop, tid: w.tid, err: ctx.Err()})
			return true
		default:
		}

		res, err := w.safeStep(ctx, cur, active)
		if err != nil {
			r.emit(childEvent[T]{kind: evStop, tid: w.tid, err: err})
			return true
		}
		if res.Stop {
			return false
		}
		if res.Tail == nil {
			r.emit(childEvent[T]{kind: evDone, tid: w.tid, value: res.Value})
			return true
		}

		r.emit(childEvent[T]{kind: evYield, value: res.Value})
		cur = res.Tail
		active = res.Ctx
	}
}

// safeStep wraps one Stream.step call with panic recovery. A user exception
// escaping a step is never recovered in place: it is converted into a
// Stop(tid, err) event, exactly like a recovered panic is converted here.
func (w *worker[T]) safeStep(ctx context.Context, s Stream[T], active *region[T]) (res StepResult[T], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
		}
	}()
	return s.step(ctx, active)
}
