// Package pool recycles reusable worker-side state across regions in a
// long-lived stream.Engine, so a process driving many short Pull calls
// doesn't pay an allocation per region for bookkeeping that can outlive any
// single one.
package pool

// Pool is a recycling pool of opaque worker-state values.
type Pool interface {
	// Get returns a recycled value, or a freshly constructed one if none
	// is available.
	Get() interface{}

	// Put returns a value to the pool for reuse.
	Put(interface{})
}
