package stream

import (
	"context"
	"fmt"
	"sync"
)

// queueCapacity is the fixed bound on both the output and work queues of a
// region. It is not an exported tuning knob — backpressure tuning stays out
// of this core.
const queueCapacity = 32

// eventKind tags the four variants of childEvent.
type eventKind int

const (
	evYield eventKind = iota
	evDone
	evStop
	evCreate
)

// childEvent is the tagged union a worker emits to its region's output
// queue: Yield(value), Done(tid, value), Stop(tid, err), Create(tid).
type childEvent[T any] struct {
	kind  eventKind
	tid   uint64
	value T
	err   error // only meaningful for evStop
}

// region is the per-parallel-region mutable state: a bounded output queue,
// a bounded work queue, and the two thread-id sets whose symmetric
// accounting detects region drain without leaks.
//
// A region owns a context.Context derived from whatever Pull call or Alt
// step created it, so a fatal error in one region can cancel exactly that
// region's workers without touching siblings outside it — Go's stand-in
// for asynchronous, per-goroutine exception delivery.
type region[T any] struct {
	out  chan childEvent[T]
	work chan Stream[T]

	threads *threadSets

	ctx    context.Context
	cancel context.CancelFunc

	tidMu   sync.Mutex
	nextTID uint64

	inst *instrumentation

	// depth is this region's nesting level: 1 for a region created from a
	// context carrying no region, incrementing for every region created
	// from inside another region's workers (an Alt reached after a Bind has
	// reset the active region; an Alt under an active region reuses it and
	// creates no new one). It travels into StreamError so a diagnostic can
	// tell a top-level failure from one buried several regions deep.
	depth int
}

// regionDepthKey tags the nesting depth carried on a region's context, the
// same context-value mechanism instrumentation.go uses to carry the
// Engine's observability bundle across nested region creation.
type regionDepthKey struct{}

func regionDepthFrom(ctx context.Context) int {
	if d, ok := ctx.Value(regionDepthKey{}).(int); ok {
		return d
	}
	return 0
}

// newRegion creates a fresh region, derived from parent, and returns it;
// its ctx field holds its own cancellation-aware context for the caller to
// pass to the initial worker and to the pulling Stream it hands back. Any
// instrumentation attached to parent by EnginePull (see instrumentation.go)
// carries forward automatically, since ctx is derived from parent, and the
// nesting depth recorded on parent's context (zero if this is the first
// region) increments for this region and every region nested inside it.
func newRegion[T any](parent context.Context) *region[T] {
	depth := regionDepthFrom(parent) + 1

	ctx, cancel := context.WithCancel(parent)
	ctx = context.WithValue(ctx, regionDepthKey{}, depth)
	inst := instrumentationFrom(parent)

	threads := newThreadSets()
	if inst.pool != nil {
		threads = inst.pool.Get().(*threadSets)
		threads.reset()
	}

	r := &region[T]{
		out:     make(chan childEvent[T], queueCapacity),
		work:    make(chan Stream[T], queueCapacity),
		threads: threads,
		ctx:     ctx,
		cancel:  cancel,
		inst:    inst,
		depth:   depth,
	}
	r.inst.metrics.Counter("stream_regions_started").Add(1)
	return r
}

func (r *region[T]) newTID() uint64 {
	r.tidMu.Lock()
	defer r.tidMu.Unlock()
	r.nextTID++
	return r.nextTID
}

// emit writes an event to the output queue, blocking if it is full — a
// worker producing faster than the puller drains naturally backpressures
// here, which is fine; only the work queue's enqueue path needs the
// self-deadlock escape hatch below.
func (r *region[T]) emit(ev childEvent[T]) {
	select {
	case r.out <- ev:
	case <-r.ctx.Done():
	}
}

// tryDequeueWork performs the worker's step-1 non-blocking dequeue: workers
// are ephemeral and exit the moment nothing is immediately queued, relying
// on the puller's demand-driven spawn heuristic to add capacity back later.
func (r *region[T]) tryDequeueWork() (Stream[T], bool) {
	select {
	case s := <-r.work:
		return s, true
	default:
		return nil, false
	}
}

// enqueueWork pushes a pending Stream onto the work queue. If the queue is
// already full at enqueue time the enqueuer must first fork a worker to
// start draining it — without this escape hatch, every worker could end up
// blocked sending into a full queue with nothing left to drain it, the
// classic bounded-queue self-deadlock that right-biased Alt compositions
// can trigger.
func (r *region[T]) enqueueWork(s Stream[T]) {
	if len(r.work) == cap(r.work) {
		r.forkWorker()
	}
	select {
	case r.work <- s:
	case <-r.ctx.Done():
	}
}

// forkInitialWorker spawns a worker and inserts its id directly into the
// running set before the goroutine starts: the caller (the puller's
// demand-spawn path, or Alt creating a fresh region) would otherwise race
// the new worker on the output queue and could observe its Done/Stop
// before ever learning it exists.
func (r *region[T]) forkInitialWorker() {
	tid := r.newTID()
	r.threads.insertRunning(tid)
	r.inst.metrics.UpDownCounter("stream_workers_running").Add(1)
	r.inst.logger.Debugf("stream: direct-insert worker %d", tid)
	go newWorker[T](tid).run(r.ctx, r)
}

// forkWorker spawns a peer worker from inside another worker (on-demand,
// enqueue-time spawn). Unlike forkInitialWorker, it emits a Create event
// through the output queue instead of inserting directly, so the create is
// serialized with this new worker's own subsequent Yield/Done/Stop events
// and the puller can never observe completion before creation.
func (r *region[T]) forkWorker() {
	tid := r.newTID()
	r.inst.logger.Debugf("stream: reported-create worker %d", tid)
	r.inst.metrics.UpDownCounter("stream_workers_running").Add(1)
	go func() {
		r.emit(childEvent[T]{kind: evCreate, tid: tid})
		newWorker[T](tid).run(r.ctx, r)
	}()
}

// killAll cancels every worker goroutine currently running in this region.
// Go has no primitive to target an arbitrary goroutine for asynchronous
// exception delivery; workers instead observe this region's own derived
// ctx at every queue operation.
func (r *region[T]) killAll() { r.cancel() }

// checkDrained defensively verifies that both queues are also empty once
// thread accounting reports drained. A violation can only be an engine bug,
// never a user-visible condition.
func (r *region[T]) checkDrained() error {
	if len(r.out) != 0 || len(r.work) != 0 {
		return fmt.Errorf("%w: out=%d work=%d", ErrDrainInvariant, len(r.out), len(r.work))
	}
	r.inst.metrics.Counter("stream_regions_drained").Add(1)
	r.inst.logger.Debugf("stream: region drained")
	if r.inst.pool != nil {
		r.inst.pool.Put(r.threads)
	}
	return nil
}

// eventRole selects which of the two sets plays setA/setB in the symmetric
// account operation: Create checks against done first, completion
// (Done/Stop) checks against running first.
type eventRole int

const (
	roleCreate eventRole = iota
	roleCompletion
)

// threadSets pairs a region's "running" and "done" sets under one mutex,
// so the symmetric cancellation check in account is atomic — one
// mutex-protected pair is easier to reason about than two separately
// locked cells, since the invariant is that the two sets stay disjoint.
type threadSets struct {
	mu      sync.Mutex
	running map[uint64]struct{}
	done    map[uint64]struct{}
}

func newThreadSets() *threadSets {
	return &threadSets{running: make(map[uint64]struct{}), done: make(map[uint64]struct{})}
}

// reset clears both sets so a pool-recycled threadSets is indistinguishable
// from a freshly allocated one.
func (s *threadSets) reset() {
	s.mu.Lock()
	for k := range s.running {
		delete(s.running, k)
	}
	for k := range s.done {
		delete(s.done, k)
	}
	s.mu.Unlock()
}

func (s *threadSets) insertRunning(tid uint64) {
	s.mu.Lock()
	s.running[tid] = struct{}{}
	s.mu.Unlock()
}

// account implements the symmetric cancellation operation: for a Create
// event, setA is done and setB is running (did the completion arrive
// first?); for a Done/Stop event, setA is running and setB is done (was
// this worker known to be running?). If tid is found in setA it is
// removed, and the region is drained exactly when both sets end up empty;
// otherwise tid is recorded in setB and the region is not drained.
func (s *threadSets) account(tid uint64, role eventRole) (drained bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setA, setB := s.done, s.running
	if role == roleCompletion {
		setA, setB = s.running, s.done
	}

	if _, ok := setA[tid]; ok {
		delete(setA, tid)
		return len(s.running) == 0 && len(s.done) == 0
	}
	setB[tid] = struct{}{}
	return false
}

func (s *threadSets) sizes() (running, done int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running), len(s.done)
}
