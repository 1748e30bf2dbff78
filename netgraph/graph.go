package netgraph

import (
	"errors"
	"sync"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/pin"
)

// Sentinel errors for model-contract violations detected at routing
// time. Callers wrap these into *simerr.Error with the
// offending component attached.
var (
	// ErrSelfCoupling indicates an atomic was routed, directly or
	// transitively, back to itself.
	ErrSelfCoupling = errors.New("netgraph: atomic routed to itself")

	// ErrMealyMealyCoupling indicates two Mealy-style atomics were
	// directly coupled, which the contract forbids.
	ErrMealyMealyCoupling = errors.New("netgraph: Mealy atomic directly coupled to Mealy atomic")
)

// Endpoint is one terminal of a routed pin: the atomic that receives
// the value, tagged with the last pin on the path that reached it so
// the receiver can distinguish input channels.
type Endpoint[X any] struct {
	Pin   pin.Pin
	Model *atomic.Model[X]
}

// Network is the interface a composed (non-leaf) model exposes to a
// simulator: the Graph it routes through.
type Network[X any] interface {
	Graph() *Graph[X]
}

// Graph is the bipartite routing table: pin -> pins, pin -> atomics,
// plus the set of all registered atomics.
type Graph[X any] struct {
	mu sync.RWMutex

	pinToPins    map[pin.Pin][]pin.Pin
	pinToAtomics map[pin.Pin][]*atomic.Model[X]
	atomics      map[*atomic.Model[X]]struct{}
}

// New constructs an empty Graph.
func New[X any]() *Graph[X] {
	return &Graph[X]{
		pinToPins:    make(map[pin.Pin][]pin.Pin),
		pinToAtomics: make(map[pin.Pin][]*atomic.Model[X]),
		atomics:      make(map[*atomic.Model[X]]struct{}),
	}
}

// AddPin mints and registers a fresh pin.
//
// Complexity: O(1).
func (g *Graph[X]) AddPin() pin.Pin {
	p := pin.New()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinToPins[p] = nil
	g.pinToAtomics[p] = nil
	return p
}

// ConnectPins adds a directed edge from src to dst in the pin→pin
// adjacency.
//
// Complexity: O(1) amortized.
func (g *Graph[X]) ConnectPins(src, dst pin.Pin) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinToPins[src] = append(g.pinToPins[src], dst)
}

// DisconnectPins removes the directed edge from src to dst, if present.
//
// Complexity: O(degree(src)).
func (g *Graph[X]) DisconnectPins(src, dst pin.Pin) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinToPins[src] = removePin(g.pinToPins[src], dst)
}

// ConnectAtomic routes values placed on src directly to m.
//
// Complexity: O(1) amortized.
func (g *Graph[X]) ConnectAtomic(src pin.Pin, m *atomic.Model[X]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinToAtomics[src] = append(g.pinToAtomics[src], m)
}

// DisconnectAtomic removes the direct edge from src to m, if present.
//
// Complexity: O(degree(src)).
func (g *Graph[X]) DisconnectAtomic(src pin.Pin, m *atomic.Model[X]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinToAtomics[src] = removeModel(g.pinToAtomics[src], m)
}

// AddAtomic registers m as a member of this network.
//
// Complexity: O(1).
func (g *Graph[X]) AddAtomic(m *atomic.Model[X]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.atomics[m] = struct{}{}
}

// RemoveAtomic erases m and severs every pin→atomic edge pointing at
// it.
//
// Complexity: O(P) where P is the number of registered pins.
func (g *Graph[X]) RemoveAtomic(m *atomic.Model[X]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.atomics, m)
	for p, ms := range g.pinToAtomics {
		g.pinToAtomics[p] = removeModel(ms, m)
	}
}

// Atomics returns every registered atomic, in no guaranteed order.
func (g *Graph[X]) Atomics() []*atomic.Model[X] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*atomic.Model[X], 0, len(g.atomics))
	for m := range g.atomics {
		out = append(out, m)
	}
	return out
}

// Route fills out with the transitive closure of source's outgoing
// edges: every atomic reachable by following pin→pin edges, each
// tagged with the last pin on the path that reached it. A pin with no
// outgoing atomic endpoints contributes nothing; this is "silently
// dropped", not an error.
//
// Routing is deterministic for a fixed graph and source pin: the walk
// visits pinToPins[p] and pinToAtomics[p] in the slice order they were
// connected, and never revisits a pin (the pin-cycle guard below),
// so repeated calls produce the same sequence.
//
// Design note: the pin graph is assumed acyclic but no check is
// performed up front; Go's recursive DFS would stack-overflow on a pin
// cycle exactly as adevs's native recursion does, so Route instead
// tracks every pin visited during the walk and never descends into
// one twice, which both prevents the crash and preserves
// "routing is deterministic" without deciding whether cycles are
// "legal" — that question is left exactly as unresolved as upstream.
//
// Complexity: O(V + E) over the reachable pin subgraph.
func (g *Graph[X]) Route(source pin.Pin, out *[]Endpoint[X]) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[pin.Pin]bool)
	var walk func(p pin.Pin)
	walk = func(p pin.Pin) {
		if visited[p] {
			return
		}
		visited[p] = true
		for _, m := range g.pinToAtomics[p] {
			*out = append(*out, Endpoint[X]{Pin: p, Model: m})
		}
		for _, next := range g.pinToPins[p] {
			walk(next)
		}
	}
	walk(source)
}

// ValidateCoupling checks the two model-contract violations this
// package defines: an atomic coupled to itself, and a Mealy atomic
// directly coupled to another Mealy atomic. Neither Graph nor the
// sequential/parallel simulators call this automatically, since
// intermediate graph-building states may transiently violate it and
// Graph has no way to know when setup has finished; it is exposed for
// callers that want fail-fast validation once their network is fully
// wired, typically right before the first ExecNextEvent/ExecUntil.
//
// Complexity: one Route per source pin, i.e. O(P·(V + E)) where P is
// len(srcPins) and V + E is the reachable pin subgraph of each.
func (g *Graph[X]) ValidateCoupling(m *atomic.Model[X], srcPins []pin.Pin) error {
	mIsMealy := m.IsMealy()
	for _, src := range srcPins {
		var ends []Endpoint[X]
		g.Route(src, &ends)
		for _, e := range ends {
			if e.Model == m {
				return ErrSelfCoupling
			}
			if mIsMealy && e.Model.IsMealy() {
				return ErrMealyMealyCoupling
			}
		}
	}
	return nil
}

func removePin(s []pin.Pin, p pin.Pin) []pin.Pin {
	for i, v := range s {
		if v == p {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeModel[X any](s []*atomic.Model[X], m *atomic.Model[X]) []*atomic.Model[X] {
	for i, v := range s {
		if v == m {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
