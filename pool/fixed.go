package pool

// fixed is a bounded-capacity Pool: it never constructs more than capacity
// values (each construction takes one slot of the all channel), and once
// that cap is reached and every value is checked out, Get blocks until a
// value is Put back. With capacity 0, Get blocks until some value is Put.
// stream.Engine selects
// this implementation when the caller wants a hard ceiling on concurrent
// worker-state objects rather than the unbounded, GC-reclaimable default.
type fixed struct {
	available chan interface{}
	all       chan interface{}
	buf       chan interface{}
	newFn     func() interface{}
}

// NewFixed returns a Pool that never holds more than capacity live values.
func NewFixed(capacity uint, newFn func() interface{}) Pool {
	return &fixed{
		available: make(chan interface{}, capacity),
		all:       make(chan interface{}, capacity),
		buf:       make(chan interface{}, 1024),
		newFn:     newFn,
	}
}

func (p *fixed) Get() interface{} {
	select {
	case el := <-p.available:
		return el

	case el := <-p.buf:
		return el

	default:
		var el interface{}
		select {
		case p.all <- struct{}{}:
			el = p.newFn()
		case el = <-p.available:
		case el = <-p.buf:
		}
		return el
	}
}

func (p *fixed) Put(el interface{}) {
	select {
	case p.available <- el:
	case p.buf <- el:
	default:
	}
}
