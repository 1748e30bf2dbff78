// Package pin defines the opaque port identifier used to route values
// between components in the simulation graph, and the PinValue pair
// that carries a value across one such port.
//
// A Pin has no owner and no type; it is process-unique only because it
// is minted from a monotonically increasing atomic counter: a single
// atomic.Int64, incremented under no lock, guarantees uniqueness
// without a registry.
package pin

import "sync/atomic"

// Pin is an opaque, process-unique port identifier. Two pins are equal
// iff their underlying integers match.
type Pin int64

var counter atomic.Int64

// New mints a fresh, process-unique Pin.
//
// Complexity: O(1), lock-free.
func New() Pin {
	return Pin(counter.Add(1))
}

// PinValue is the fundamental unit of input/output in the routing
// graph: a port identifier paired with the value placed on it.
type PinValue[X any] struct {
	Pin   Pin
	Value X
}
