// Package atomic defines the polymorphic contract every leaf DEVS
// component implements, the Mealy-style variant whose output depends
// on incoming input, and Model, the engine-visible envelope that
// carries the scheduling bookkeeping (tL, tN, heap index,
// logical-process index, scratch input/output bags) around a user's
// Atomic implementation.
//
// Atomic itself carries no engine-only method: a user model never sees
// Model, and the engine never calls a method that is not part of the
// public contract. This separation mirrors a common split between an
// immutable payload type and the bookkeeping (adjacency, locks) a
// container wraps around it.
package atomic

import (
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/simtime"
)

// Atomic is the behavioral contract a leaf DEVS component provides.
//
// TimeAdvance returns the time remaining until the component's next
// internal event; simtime's Inf value means "only input will wake me".
// A negative return is a fatal model-contract violation.
//
// Output is invoked immediately before DeltaInt or DeltaConf, and must
// append the component's emitted PinValues to *yb.
//
// DeltaInt advances state by one internal transition; called when the
// component is imminent with no confluent input.
//
// DeltaExt consumes the input bag xb that arrived e time units after
// the component's last event, with e < TimeAdvance() relative to that
// last event (i.e. the component was not imminent).
//
// DeltaConf is the confluent case: input arrived at exactly the
// component's planned internal-event time.
type Atomic[X any] interface {
	TimeAdvance() simtime.Time
	Output(yb *[]pin.PinValue[X])
	DeltaInt()
	DeltaExt(e simtime.Time, xb []pin.PinValue[X])
	DeltaConf(xb []pin.PinValue[X])
}

// Mealy is the Mealy-style variant whose output is a function of
// incoming input rather than of state alone. Mealy components may not
// be directly coupled to other Mealy components.
// netgraph.Graph.ValidateCoupling reports such coupling when called;
// Route and the simulators do not check for it.
type Mealy[X any] interface {
	Atomic[X]

	// MealyOutput computes output as a function of the input bag xb
	// (used for external or confluent output) and appends it to *yb.
	MealyOutput(xb []pin.PinValue[X], yb *[]pin.PinValue[X])
}

// Model is the engine-visible envelope around a user Atomic[X]. Every
// scheduler, graph, and simulator operates on *Model[X], never on the
// bare Atomic[X], so that bookkeeping fields never leak into user code.
type Model[X any] struct {
	// Impl is the user's behavioral implementation.
	Impl Atomic[X]

	// TL is the absolute time of this component's last event.
	TL simtime.Time
	// TN is the next planned internal-event time: TL + ta(), or Inf.
	TN simtime.Time

	// QIndex is this component's 1-based position in the scheduler's
	// heap array; zero means "not scheduled". Owned by sched.Scheduler.
	QIndex int

	// Proc is the logical-process index assigned by the parallel
	// engine, or -1 if unassigned (sequential engine never sets it).
	Proc int

	// Inputs and Outputs are per-cycle scratch bags, owned by the
	// engine for the duration of one transition cycle and cleared
	// between ticks.
	Inputs  []pin.PinValue[X]
	Outputs []pin.PinValue[X]

	// Active and Imminent are per-cycle flags cleared before reuse.
	Active   bool
	Imminent bool

	// Name is an optional human-readable label used in error messages
	// and test output; purely cosmetic.
	Name string
}

// New wraps impl in a fresh, unscheduled Model with TL = TN = zero
// and Proc = -1 (the caller — usually a simulator's construction
// step — computes TN from impl.TimeAdvance() before the component is
// scheduled).
func New[X any](impl Atomic[X], zero simtime.Time) *Model[X] {
	return &Model[X]{
		Impl: impl,
		TL:   zero,
		TN:   zero,
		Proc: -1,
	}
}

// IsMealy reports whether Impl additionally implements Mealy[X].
func (m *Model[X]) IsMealy() bool {
	_, ok := m.Impl.(Mealy[X])
	return ok
}

// ClearCycle resets the per-cycle scratch state between ticks. Input
// and output backing arrays are truncated to length zero, not
// reallocated, so repeated ticks do not churn the allocator — the same
// discipline a pre-sized scratch slice reused across calls follows
// anywhere a hot loop would otherwise reallocate per iteration.
func (m *Model[X]) ClearCycle() {
	m.Inputs = m.Inputs[:0]
	m.Outputs = m.Outputs[:0]
	m.Active = false
	m.Imminent = false
}
