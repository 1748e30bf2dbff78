package locator

import (
	"math"

	"github.com/katalvlaran/devsim/solver"
)

// StateEventFunc fills z[0:numEvents] from the continuous state q.
type StateEventFunc func(q, z []float64)

// Locator brackets the first zero crossing of a state-event function
// inside a proposed integration step. FindEvents may shrink h and
// rewrite qEnd in place; it sets event[i] true for
// every zero-crossing function that triggered at the returned h, and
// returns whether any event was found.
type Locator interface {
	FindEvents(event []bool, qStart, qEnd []float64, sv solver.Solver, h *float64) bool
}

// mode selects the termination/refinement rule shared by Bisection,
// Linear and Discontinuous — all three are the same search loop from
// adevs's event_locator_impl, differing only in how they pick the next
// candidate h and how they decide "close enough".
type mode int

const (
	modeBisection mode = iota
	modeLinear
	modeDiscontinuous
)

// impl is the shared implementation behind Bisection, Linear and
// Discontinuous (grounded on adevs's event_locator_impl).
type impl struct {
	numEvents int
	stateFn   StateEventFunc
	errTol    float64
	mode      mode

	z0, z1 []float64
}

// Bisection assumes continuous event functions and halves the interval
// whenever any z changes sign but none is within tolerance at the end.
func Bisection(numVars, numEvents int, stateFn StateEventFunc, errTol float64) Locator {
	return &impl{numEvents: numEvents, stateFn: stateFn, errTol: errTol, mode: modeBisection, z0: make([]float64, numEvents), z1: make([]float64, numEvents)}
}

// Linear refines the bracket via linear interpolation of each
// sign-changing z, guarded so the candidate step never falls below
// h/4; it still requires continuous z.
func Linear(numVars, numEvents int, stateFn StateEventFunc, errTol float64) Locator {
	return &impl{numEvents: numEvents, stateFn: stateFn, errTol: errTol, mode: modeLinear, z0: make([]float64, numEvents), z1: make([]float64, numEvents)}
}

// Discontinuous is bisection whose termination test is h <= tol
// instead of |z| <= tol, since z may jump across the event.
func Discontinuous(numVars, numEvents int, stateFn StateEventFunc, errTol float64) Locator {
	return &impl{numEvents: numEvents, stateFn: stateFn, errTol: errTol, mode: modeDiscontinuous, z0: make([]float64, numEvents), z1: make([]float64, numEvents)}
}

func sign(x float64) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// FindEvents implements Locator for all three bisection-family modes.
//
// Complexity: O(k) solver re-advances, where k is the number of
// halvings/interpolations needed to converge; each re-advance costs
// whatever the underlying solver.Advance costs.
func (lc *impl) FindEvents(event []bool, qStart, qEnd []float64, sv solver.Solver, h *float64) bool {
	if lc.numEvents == 0 {
		return false
	}
	lc.stateFn(qStart, lc.z0)
	for {
		tguess := *h
		eventInInterval := false
		foundEvent := false
		lc.stateFn(qEnd, lc.z1)
		for i := 0; i < lc.numEvents; i++ {
			event[i] = false
			if sign(lc.z1[i]) == sign(lc.z0[i]) {
				continue
			}
			closeEnough := (lc.mode != modeDiscontinuous && math.Abs(lc.z1[i]) <= lc.errTol) ||
				(lc.mode == modeDiscontinuous && *h <= lc.errTol)
			if closeEnough {
				event[i] = true
				foundEvent = true
				continue
			}
			if lc.mode == modeLinear {
				tcandidate := lc.z0[i] * (*h) / (lc.z0[i] - lc.z1[i])
				if tcandidate < *h/4.0 {
					tcandidate = *h / 4.0
				}
				if tcandidate < tguess {
					tguess = tcandidate
				}
			}
			eventInInterval = true
		}
		if !eventInInterval {
			return foundEvent
		}
		if lc.mode == modeBisection || lc.mode == modeDiscontinuous {
			*h /= 2.0
		} else {
			*h = tguess
		}
		copy(qEnd, qStart)
		sv.Advance(qEnd, *h)
	}
}

// Null is for systems with no state-event functions: it always reports
// no event found, the correct behavior for a hybrid component with
// zero state events (time-event-driven only).
type nullLocator struct{}

// Null constructs a Locator that never finds an event.
func Null() Locator { return nullLocator{} }

func (nullLocator) FindEvents(event []bool, qStart, qEnd []float64, sv solver.Solver, h *float64) bool {
	return false
}
