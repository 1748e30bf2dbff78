package hybrid

import (
	"fmt"
	"math"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/locator"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/simtime"
	"github.com/katalvlaran/devsim/solver"
)

// Hybrid wraps a System, numerical Solver and event Locator into an
// atomic.Atomic[X]. It requires the Float64 time
// domain: a continuous state's integration step has no interpretation
// against superdense time, since ODE trajectories are defined over the
// reals, not over a tie-broken counter.
type Hybrid[X any] struct {
	sys System[X]
	sv  solver.Solver
	loc locator.Locator

	q, qTrial []float64
	event     []bool

	sigma        float64
	eventExists  bool
	eventHappen  bool
	eAccum       float64
	missedOutput []pin.PinValue[X]
}

// New constructs a Hybrid around sys, taking the first tentative step
// immediately, mirroring sequential.New's eager-priming pattern where
// every new component's time advance is known before it can be
// scheduled.
func New[X any](sys System[X], sv solver.Solver, loc locator.Locator) *Hybrid[X] {
	n := sys.NumVars()
	m := sys.NumEvents()
	h := &Hybrid[X]{
		sys:     sys,
		sv:      sv,
		loc:     loc,
		q:       make([]float64, n),
		qTrial:  make([]float64, n),
		event:   make([]bool, m+1),
	}
	sys.Init(h.qTrial)
	copy(h.q, h.qTrial)
	h.tentativeStep()
	return h
}

// State returns the component's current continuous state; callers must
// not mutate the returned slice.
func (h *Hybrid[X]) State() []float64 { return h.q }

// EventHappened reports whether the most recent transition was caused
// by a state or time event in the underlying System, or by external
// input (external and confluent transitions always set it), as opposed
// to a pure numerical-integration step.
func (h *Hybrid[X]) EventHappened() bool { return h.eventHappen }

func mustFloat64(t simtime.Time) float64 {
	f, ok := t.(simtime.Float64)
	if !ok {
		panic(fmt.Sprintf("hybrid: component requires the Float64 time domain, got %T", t))
	}
	return float64(f)
}

// ta mirrors adevs's Hybrid::ta(): zero whenever output was missed and
// is still pending delivery, so the confluent machinery runs on the
// very next cycle.
func (h *Hybrid[X]) ta() float64 {
	if len(h.missedOutput) == 0 {
		return h.sigma
	}
	return 0
}

// TimeAdvance implements atomic.Atomic.
func (h *Hybrid[X]) TimeAdvance() simtime.Time {
	return simtime.Float64(h.ta())
}

// Output implements atomic.Atomic.
func (h *Hybrid[X]) Output(yb *[]pin.PinValue[X]) {
	if len(h.missedOutput) > 0 {
		*yb = append(*yb, h.missedOutput...)
		if h.sigma == 0.0 {
			h.sys.Output(h.qTrial, h.event, yb)
		}
		return
	}
	if ps, ok := h.sys.(PostStepper); ok {
		ps.PostStep(h.qTrial)
	}
	if h.eventExists {
		h.sys.Output(h.qTrial, h.event, yb)
	}
}

// DeltaInt implements atomic.Atomic.
func (h *Hybrid[X]) DeltaInt() {
	if len(h.missedOutput) > 0 {
		h.missedOutput = h.missedOutput[:0]
		return
	}
	h.eAccum += h.ta()
	h.eventHappen = h.eventExists
	if h.eventExists {
		h.sys.InternalEvent(h.qTrial, h.event)
		h.eAccum = 0
	}
	copy(h.q, h.qTrial)
	h.tentativeStep()
}

// DeltaExt implements atomic.Atomic.
func (h *Hybrid[X]) DeltaExt(e simtime.Time, xb []pin.PinValue[X]) {
	ef := mustFloat64(e)
	stateEventExists := false
	h.eventHappen = true
	if h.eventExists {
		copy(h.qTrial, h.q)
		h.sv.Advance(h.qTrial, ef)
		stateEventExists = h.loc.FindEvents(h.event, h.q, h.qTrial, h.sv, &ef)
		if stateEventExists {
			var missed []pin.PinValue[X]
			h.Output(&missed)
			h.missedOutput = missed
			h.sys.ConfluentEvent(h.qTrial, h.event, xb)
			copy(h.q, h.qTrial)
		}
	}
	if !stateEventExists {
		h.sv.Advance(h.q, ef)
		if ps, ok := h.sys.(PostStepper); ok {
			ps.PostStep(h.q)
		}
		h.sys.ExternalEvent(h.q, ef+h.eAccum, xb)
	}
	h.eAccum = 0
	copy(h.qTrial, h.q)
	h.tentativeStep()
}

// DeltaConf implements atomic.Atomic.
func (h *Hybrid[X]) DeltaConf(xb []pin.PinValue[X]) {
	if len(h.missedOutput) > 0 {
		h.missedOutput = h.missedOutput[:0]
		if h.sigma > 0.0 {
			h.eventExists = false
		}
	}
	h.eventHappen = true
	if h.eventExists {
		h.sys.ConfluentEvent(h.qTrial, h.event, xb)
	} else {
		h.sys.ExternalEvent(h.qTrial, h.eAccum+h.ta(), xb)
	}
	h.eAccum = 0
	copy(h.q, h.qTrial)
	h.tentativeStep()
}

// tentativeStep integrates up to the next time event (or as far as the
// solver's own step-size control allows), runs the locator over that
// interval, and recomputes sigma and the event cause flags — adevs's
// Hybrid::tentative_step.
func (h *Hybrid[X]) tentativeStep() {
	timeEvent := h.sys.TimeEvent(h.q)
	copy(h.qTrial, h.q)
	stepSize := h.sv.Integrate(h.qTrial, timeEvent)
	stateEventExists := h.loc.FindEvents(h.event[:len(h.event)-1], h.q, h.qTrial, h.sv, &stepSize)
	h.sigma = math.Min(stepSize, timeEvent)
	h.event[len(h.event)-1] = timeEvent <= h.sigma
	h.eventExists = h.event[len(h.event)-1] || stateEventExists
	if pts, ok := h.sys.(PostTrialStepper); ok {
		pts.PostTrialStep(h.q)
	}
}

var _ atomic.Atomic[int] = (*Hybrid[int])(nil)
