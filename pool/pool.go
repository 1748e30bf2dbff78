// Package pool provides a thin generic wrapper over sync.Pool for
// per-tick scratch slices such as []pin.PinValue[X]. Neither the
// sequential nor the parallel simulator uses it.
//
// Design note: object pooling to avoid per-tick allocation is usually
// a premature optimization in Go, and most of this kernel relies on
// simple, pre-sized slices instead (atomic.Model.ClearCycle truncates
// rather than reallocates). Pool targets the one hot path both
// simulators share: building the per-tick "active" set of input bags,
// which under heavy fan-out churns many short-lived slices per tick;
// both simulators currently build those bags with plain slices.
// Benchmarking which call sites actually benefit is left to callers;
// Pool itself is deliberately small so adopting or dropping it at a
// given call site is a one-line change.
package pool

import "sync"

// Pool recycles slices of T to avoid per-tick allocation.
type Pool[T any] struct {
	p sync.Pool
}

// New constructs a Pool whose Get returns slices with the given
// initial capacity when the underlying sync.Pool is empty.
func New[T any](initialCap int) *Pool[T] {
	return &Pool[T]{
		p: sync.Pool{
			New: func() any {
				s := make([]T, 0, initialCap)
				return &s
			},
		},
	}
}

// Get returns a zero-length slice, possibly reused.
func (p *Pool[T]) Get() []T {
	s := p.p.Get().(*[]T)
	return (*s)[:0]
}

// Put returns s to the pool for reuse. Callers must not use s after
// calling Put.
func (p *Pool[T]) Put(s []T) {
	s = s[:0]
	p.p.Put(&s)
}
