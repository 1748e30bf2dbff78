package hybrid

import "github.com/katalvlaran/devsim/pin"

// System is the piecewise-continuous component a Hybrid simulates: N
// state variables evolving by Der, with M zero-crossing functions that
// trigger discrete events alongside an optional scheduled time event.
type System[X any] interface {
	// NumVars returns the number of continuous state variables.
	NumVars() int
	// NumEvents returns the number of state-event (zero-crossing)
	// functions; it does not count the implicit time event.
	NumEvents() int

	// Init writes the initial continuous state into q.
	Init(q []float64)
	// Der computes dq/dt = f(q) for the current state q.
	Der(q, dq []float64)
	// StateEvent fills z[0:NumEvents()] from the continuous state q;
	// a sign change in any z[i] between two steps triggers an event.
	StateEvent(q, z []float64)
	// TimeEvent returns the time remaining, from state q, until the
	// next scheduled internal event; simtime-style infinite values are
	// expressed as math.Inf(1).
	TimeEvent(q []float64) float64

	// InternalEvent updates q in place in response to a discrete
	// event (state or time); stateEvent[i] is true for every state
	// event that fired, and stateEvent[NumEvents()] is true for a time
	// event.
	InternalEvent(q []float64, stateEvent []bool)
	// ExternalEvent updates q in place in response to input xb
	// arriving e time units after the component's last event.
	ExternalEvent(q []float64, e float64, xb []pin.PinValue[X])
	// ConfluentEvent updates q in place when input arrives at exactly
	// a discrete event instant.
	ConfluentEvent(q []float64, stateEvent []bool, xb []pin.PinValue[X])
	// Output appends this component's output for the discrete event
	// described by stateEvent to *yb.
	Output(q []float64, stateEvent []bool, yb *[]pin.PinValue[X])
}

// PostStepper is an optional System hook invoked after the continuous
// state is committed (e.g. to re-satisfy an algebraic constraint).
type PostStepper interface {
	PostStep(q []float64)
}

// PostTrialStepper is an optional System hook invoked after every
// trial step attempted during integration and event location.
type PostTrialStepper interface {
	PostTrialStep(q []float64)
}
