// Package sched implements the event priority queue:
// a binary min-heap over scheduled atomics keyed by their next-event
// time TN, supporting insert, decrease-key, increase-key and removal in
// O(log n), and enumeration of every atomic tied for the current minimum
// priority in O(k) for k tied atomics, with O(1) location of any element
// via the index the element itself carries (atomic.Model.QIndex).
//
// The heap shape and percolate-up/percolate-down logic follow a
// hand-rolled binary heap rather than container/heap.Interface,
// because re-prioritizing an arbitrary element in place — not just the
// root — requires the element to know its own index, which is exactly
// atomic.Model.QIndex.
package sched

import (
	"errors"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/simtime"
)

// ErrNegativeTimeAdvance is the sentinel wrapped into a *simerr.Error by
// callers (sequential.Simulator, parallel.ParallelSimulator) when a
// component's TimeAdvance() returns a negative delta.
var ErrNegativeTimeAdvance = errors.New("sched: negative time advance")

// entry is one heap slot: the priority the scheduler last recorded for
// model, kept alongside the model pointer so Less/Swap never need to
// call back into user code.
type entry[X any] struct {
	model    *atomic.Model[X]
	priority simtime.Time
}

// Scheduler is a binary min-heap over *atomic.Model[X], keyed by TN.
// Index 0 is a sentinel holding a priority below every real value, to
// simplify percolate-up; real elements occupy indices 1..size.
type Scheduler[X any] struct {
	heap []entry[X]
	// preZero is a Time value the caller guarantees compares less than
	// every priority ever scheduled; used only as the index-0 sentinel.
	preZero simtime.Time
}

// New constructs an empty Scheduler. preZero must compare less than or
// equal to every Time the caller will ever schedule (callers typically
// pass their domain's Zero, or Zero.Sub(Epsilon) if Zero values are
// themselves scheduled).
func New[X any](preZero simtime.Time) *Scheduler[X] {
	s := &Scheduler[X]{heap: make([]entry[X], 1, 64)}
	s.heap[0] = entry[X]{priority: preZero}
	s.preZero = preZero
	return s
}

// Len reports the number of scheduled atomics.
func (s *Scheduler[X]) Len() int { return len(s.heap) - 1 }

// MinPriority returns the smallest TN among scheduled atomics, or the
// caller-supplied inf value if none are scheduled. Callers pass inf
// explicitly because Scheduler has no domain-specific notion of
// infinity beyond what Time.IsInf reports.
func (s *Scheduler[X]) MinPriority(inf simtime.Time) simtime.Time {
	if s.Len() == 0 {
		return inf
	}
	return s.heap[1].priority
}

// Schedule inserts, reprioritizes, or removes m: if p is infinite and
// m is present, remove it; if p is finite and m is absent, insert it;
// otherwise reprioritize in place. A call with p equal to m's
// already-stored priority is a no-op.
//
// Complexity: O(log n).
func (s *Scheduler[X]) Schedule(m *atomic.Model[X], p simtime.Time) {
	present := m.QIndex > 0
	switch {
	case p.IsInf() && present:
		s.remove(m.QIndex)
	case !p.IsInf() && !present:
		s.insert(m, p)
	case present:
		if simtime.Equal(s.heap[m.QIndex].priority, p) {
			return
		}
		s.reprioritize(m.QIndex, p)
	}
}

func (s *Scheduler[X]) insert(m *atomic.Model[X], p simtime.Time) {
	s.heap = append(s.heap, entry[X]{model: m, priority: p})
	i := len(s.heap) - 1
	m.QIndex = i
	s.percolateUp(i)
}

func (s *Scheduler[X]) reprioritize(i int, p simtime.Time) {
	old := s.heap[i].priority
	s.heap[i].priority = p
	if p.Compare(old) < 0 {
		s.percolateUp(i)
	} else {
		s.percolateDown(i)
	}
}

// remove erases exactly one atomic (by heap index) and decrements size;
// the removed atomic's QIndex is reset to zero.
func (s *Scheduler[X]) remove(i int) {
	removed := s.heap[i].model
	last := len(s.heap) - 1
	s.swap(i, last)
	s.heap = s.heap[:last]
	removed.QIndex = 0
	if i <= len(s.heap)-1 {
		// the element swapped into i may need to move either way.
		s.percolateDown(i)
		s.percolateUp(i)
	}
}

// RemoveMinimum erases exactly one atomic at the current minimum
// priority and decrements size. Panics if the scheduler is empty;
// callers must check Len() or compare MinPriority against inf first.
//
// Complexity: O(log n).
func (s *Scheduler[X]) RemoveMinimum() *atomic.Model[X] {
	m := s.heap[1].model
	s.remove(1)
	return m
}

// VisitImminent returns, in no guaranteed order, every scheduled atomic
// whose stored priority equals MinPriority. The heap is left
// unmodified; this is a read-only traversal.
//
// Complexity: O(k) where k is the size of the returned set, found via
// an in-order recursive descent that prunes any subtree whose root
// priority already exceeds the minimum (every strict descendant of a
// node with priority > min also has priority >= that node's, by the
// heap property, so it cannot be imminent).
func (s *Scheduler[X]) VisitImminent() []*atomic.Model[X] {
	if s.Len() == 0 {
		return nil
	}
	min := s.heap[1].priority
	var out []*atomic.Model[X]
	var visit func(i int)
	visit = func(i int) {
		if i > len(s.heap)-1 {
			return
		}
		if s.heap[i].priority.Compare(min) != 0 {
			return
		}
		out = append(out, s.heap[i].model)
		visit(2 * i)
		visit(2*i + 1)
	}
	visit(1)
	return out
}

func (s *Scheduler[X]) percolateUp(i int) {
	for i > 1 && s.heap[i].priority.Compare(s.heap[i/2].priority) < 0 {
		s.swap(i, i/2)
		i = i / 2
	}
}

func (s *Scheduler[X]) percolateDown(i int) {
	n := len(s.heap) - 1
	for {
		l, r := 2*i, 2*i+1
		smallest := i
		if l <= n && s.heap[l].priority.Compare(s.heap[smallest].priority) < 0 {
			smallest = l
		}
		if r <= n && s.heap[r].priority.Compare(s.heap[smallest].priority) < 0 {
			smallest = r
		}
		if smallest == i {
			return
		}
		s.swap(i, smallest)
		i = smallest
	}
}

func (s *Scheduler[X]) swap(i, j int) {
	s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
	if s.heap[i].model != nil {
		s.heap[i].model.QIndex = i
	}
	if s.heap[j].model != nil {
		s.heap[j].model.QIndex = j
	}
}
