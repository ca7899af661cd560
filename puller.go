package stream

import (
	"context"
	"fmt"
	"time"
)

// pullerBackoff is the delay between polls of an apparently-empty output
// queue. Unexported: this stays off the public surface, but
// package-internal tests shrink it so they don't spend real wall-clock
// time waiting on it.
var pullerBackoff = 4 * time.Microsecond

// puller is the consumer side of the engine: a Stream that reads its
// region's output queue, reconstructs a sequence for the downstream
// consumer, and owns thread accounting and exception propagation.
type puller[T any] struct {
	r *region[T]
}

func newPuller[T any](r *region[T]) Stream[T] { return &puller[T]{r: r} }

// step implements the puller's read loop: a non-blocking try-read, and, if
// the queue is momentarily empty, a backoff sleep followed by a check of
// the demand-driven spawn heuristic (work queued, nothing coming out ->
// add a worker) before trying again.
func (p *puller[T]) step(ctx context.Context, _ *region[T]) (StepResult[T], error) {
	select {
	case ev := <-p.r.out:
		return p.dispatch(ctx, ev)
	case <-ctx.Done():
		return StepResult[T]{}, ctx.Err()
	default:
	}

	for {
		select {
		case <-time.After(pullerBackoff):
		case <-ctx.Done():
			return StepResult[T]{}, ctx.Err()
		}

		if len(p.r.out) == 0 && len(p.r.work) > 0 {
			// Producers look idle relative to demand: add capacity. This
			// is the puller's own spawn, so the id is inserted directly
			// into the running set rather than reported via a Create
			// event — the puller would otherwise race the new worker on
			// the output queue.
			p.r.forkInitialWorker()
		}

		select {
		case ev := <-p.r.out:
			return p.dispatch(ctx, ev)
		case <-ctx.Done():
			return StepResult[T]{}, ctx.Err()
		default:
		}
	}
}

// dispatch implements the per-tag handling of a single output-queue event.
func (p *puller[T]) dispatch(ctx context.Context, ev childEvent[T]) (StepResult[T], error) {
	switch ev.kind {
	case evYield:
		return StepResult[T]{Value: ev.value, Tail: p}, nil

	case evDone:
		drained := p.r.threads.account(ev.tid, roleCompletion)
		if !drained {
			return StepResult[T]{Value: ev.value, Tail: p}, nil
		}
		if err := p.r.checkDrained(); err != nil {
			return StepResult[T]{}, err
		}
		return StepResult[T]{Value: ev.value}, nil

	case evStop:
		if ev.err != nil {
			p.r.threads.account(ev.tid, roleCompletion)
			p.r.killAll()
			return StepResult[T]{}, newStreamError(ev.tid, p.r.depth, ev.err)
		}
		drained := p.r.threads.account(ev.tid, roleCompletion)
		if !drained {
			return p.step(ctx, nil)
		}
		if err := p.r.checkDrained(); err != nil {
			return StepResult[T]{}, err
		}
		return StepResult[T]{Stop: true}, nil

	case evCreate:
		// Accounting only: this dispatch table never terminates the
		// region on a Create event, even if it happens to be the event
		// that brings both sets to empty.
		p.r.threads.account(ev.tid, roleCreate)
		return p.step(ctx, nil)

	default:
		return StepResult[T]{}, fmt.Errorf("%w: unrecognized event kind", ErrDrainInvariant)
	}
}
