package pool

import "sync"

// NewDynamic is a dynamically-sized Pool: a thin wrapper around sync.Pool,
// so its contents may be reclaimed by the garbage collector under memory
// pressure between regions. This is stream.Engine's default.
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
