package sequential

import (
	"fmt"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/netgraph"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/sched"
	"github.com/katalvlaran/devsim/simerr"
	"github.com/katalvlaran/devsim/simtime"
)

// EventListener receives notifications as the simulator processes each
// tick. All three callbacks fire synchronously from
// within the ExecNextEvent call that produced them.
type EventListener[X any] interface {
	// OutputEvent fires once per PinValue an imminent atomic emits,
	// during Phase A; a Mealy atomic's output is reported in Phase B,
	// once it has been computed.
	OutputEvent(m *atomic.Model[X], value pin.PinValue[X], t simtime.Time)
	// InputEvent fires once per PinValue a recipient atomic accepts,
	// during Phase B, before its transition runs.
	InputEvent(m *atomic.Model[X], value pin.PinValue[X], t simtime.Time)
	// StateChange fires once per atomic whose transition ran this tick.
	StateChange(m *atomic.Model[X], t simtime.Time)
}

// injected is one staged external input, targeting a specific atomic.
type injected[X any] struct {
	target *atomic.Model[X]
	value  pin.PinValue[X]
}

// Clock bundles the three domain-specific Time values a Simulator
// needs but cannot discover generically from the Time interface alone:
// the bottom element, the top element, and the tie-breaking epsilon
// added to TL on every successful transition to guarantee strict
// progress in superdense time.
type Clock struct {
	Zero    simtime.Time
	Inf     simtime.Time
	Epsilon simtime.Time
}

// Simulator is the classical DEVS sequential resolution loop.
type Simulator[X any] struct {
	graph *netgraph.Graph[X]
	sched *sched.Scheduler[X]
	clock Clock

	imminents    []*atomic.Model[X]
	injectedBuf  []injected[X]
	outputReady  bool
	tNext        simtime.Time
	currentT     simtime.Time

	listeners []EventListener[X]
}

// New builds a sequential Simulator over every atomic currently
// registered in net's Graph(), scheduling each by its initial
// TimeAdvance().
func New[X any](net netgraph.Network[X], clock Clock) (*Simulator[X], error) {
	g := net.Graph()
	s := &Simulator[X]{
		graph: g,
		sched: sched.New[X](clock.Zero),
		clock: clock,
		tNext: clock.Inf,
	}
	for _, m := range g.Atomics() {
		if err := s.scheduleFresh(m, clock.Zero); err != nil {
			return nil, err
		}
	}
	s.tNext = s.sched.MinPriority(clock.Inf)
	return s, nil
}

func (s *Simulator[X]) scheduleFresh(m *atomic.Model[X], at simtime.Time) error {
	m.TL = at
	ta := m.Impl.TimeAdvance()
	if simtime.Less(ta, s.clock.Zero) {
		return simerr.Newf(m, sched.ErrNegativeTimeAdvance, "model %q: ta()=%s", m.Name, ta)
	}
	if ta.IsInf() {
		m.TN = s.clock.Inf
	} else {
		m.TN = m.TL.Add(ta)
	}
	s.sched.Schedule(m, m.TN)
	return nil
}

// AddEventListener registers l to receive future output/input/state
// notifications.
func (s *Simulator[X]) AddEventListener(l EventListener[X]) {
	s.listeners = append(s.listeners, l)
}

// NextEventTime returns the minimum pending event time, or the clock's
// Inf value if none is pending.
func (s *Simulator[X]) NextEventTime() simtime.Time {
	return s.tNext
}

// InjectInput stages value for delivery to target at the next tick. If
// the target time t is strictly earlier than the scheduler's current
// minimum priority, t_next is pulled down to force application at t
//.
func (s *Simulator[X]) InjectInput(target *atomic.Model[X], value pin.PinValue[X], t simtime.Time) {
	s.injectedBuf = append(s.injectedBuf, injected[X]{target: target, value: value})
	if simtime.Less(t, s.sched.MinPriority(s.clock.Inf)) {
		s.tNext = t
	}
}

// ExecNextEvent advances the simulation by one tick and returns the new
// current time.
func (s *Simulator[X]) ExecNextEvent() (simtime.Time, error) {
	if err := s.computeNextOutput(); err != nil {
		return s.clock.Zero, err
	}
	t, err := s.computeNextState()
	if err != nil {
		return s.clock.Zero, err
	}
	return t, nil
}

// ExecUntil repeatedly calls ExecNextEvent until NextEventTime()
// exceeds tEnd.
func (s *Simulator[X]) ExecUntil(tEnd simtime.Time) error {
	for simtime.Less(s.NextEventTime(), tEnd) || simtime.Equal(s.NextEventTime(), tEnd) {
		if s.NextEventTime().IsInf() {
			return nil
		}
		if _, err := s.ExecNextEvent(); err != nil {
			return err
		}
	}
	return nil
}

// computeNextOutput is Phase A: collect the imminent set and produce
// its output.
func (s *Simulator[X]) computeNextOutput() error {
	if s.outputReady {
		return nil
	}
	t := s.sched.MinPriority(s.clock.Inf)
	if simtime.Less(s.tNext, t) {
		// No imminents at tNext; injected input alone will drive Phase B.
		s.currentT = s.tNext
		s.outputReady = true
		return nil
	}

	s.currentT = t
	s.imminents = s.sched.VisitImminent()
	for _, m := range s.imminents {
		m.Imminent = true
		// A Mealy atomic's output is a function of input that has not
		// been routed yet at this point in the tick: calling Output
		// here would both compute the wrong value and let Phase B
		// route it before the real, input-dependent value exists.
		// computeNextState defers it until every input this model
		// will receive this tick is known.
		if m.IsMealy() {
			continue
		}
		m.Impl.Output(&m.Outputs)
		for _, pv := range m.Outputs {
			s.notifyOutput(m, pv, t)
		}
	}
	s.outputReady = true
	return nil
}

// computeNextState is Phase B: route outputs and injected input to
// their recipients, then resolve each affected atomic's transition.
func (s *Simulator[X]) computeNextState() (simtime.Time, error) {
	if !s.outputReady {
		if err := s.computeNextOutput(); err != nil {
			return s.clock.Zero, err
		}
	}

	t := s.currentT

	active := make([]*atomic.Model[X], 0, len(s.imminents))
	seen := make(map[*atomic.Model[X]]bool, len(s.imminents))
	for _, m := range s.imminents {
		active = append(active, m)
		seen[m] = true
	}

	addActive := func(m *atomic.Model[X]) {
		if !seen[m] {
			seen[m] = true
			active = append(active, m)
		}
	}

	var endpoints []netgraph.Endpoint[X]
	route := func(m *atomic.Model[X], pv pin.PinValue[X]) {
		endpoints = endpoints[:0]
		s.graph.Route(pv.Pin, &endpoints)
		for _, ep := range endpoints {
			value := pin.PinValue[X]{Pin: ep.Pin, Value: pv.Value}
			ep.Model.Inputs = append(ep.Model.Inputs, value)
			s.notifyInput(ep.Model, value, t)
			addActive(ep.Model)
		}
	}

	for _, src := range s.imminents {
		for _, pv := range src.Outputs {
			route(src, pv)
		}
	}
	for _, inj := range s.injectedBuf {
		inj.target.Inputs = append(inj.target.Inputs, inj.value)
		s.notifyInput(inj.target, inj.value, t)
		addActive(inj.target)
	}
	s.injectedBuf = s.injectedBuf[:0]

	// This step assumes a Mealy atomic is coupled only to non-Mealy
	// recipients; neither the graph's Connect methods nor this
	// simulator check it (netgraph.Graph.ValidateCoupling does, when
	// called). Under that assumption, by this point every
	// Mealy atomic's input for this tick is already fully routed —
	// its real output can now be computed and routed in turn. The
	// index-based loop picks up atomics newly activated by that
	// routing so they still reach the transition loop below.
	for i := 0; i < len(active); i++ {
		m := active[i]
		if !m.IsMealy() {
			continue
		}
		m.Outputs = m.Outputs[:0]
		if len(m.Inputs) > 0 {
			m.Impl.(atomic.Mealy[X]).MealyOutput(m.Inputs, &m.Outputs)
		} else if m.Imminent {
			m.Impl.Output(&m.Outputs)
		}
		for _, pv := range m.Outputs {
			s.notifyOutput(m, pv, t)
			route(m, pv)
		}
	}

	for _, m := range active {
		switch {
		case len(m.Inputs) == 0:
			m.Impl.DeltaInt()
		case simtime.Equal(m.TN, t):
			m.Impl.DeltaConf(m.Inputs)
		default:
			m.Impl.DeltaExt(t.Sub(m.TL), m.Inputs)
		}

		m.Inputs = m.Inputs[:0]
		m.TL = t.Add(s.clock.Epsilon)

		ta := m.Impl.TimeAdvance()
		if simtime.Less(ta, s.clock.Zero) {
			return s.clock.Zero, simerr.Newf(m, sched.ErrNegativeTimeAdvance, "model %q: ta()=%s", m.Name, ta)
		}
		if ta.IsInf() {
			m.TN = s.clock.Inf
		} else {
			m.TN = m.TL.Add(ta)
		}
		s.sched.Schedule(m, m.TN)
		s.notifyState(m, t)
	}

	for _, m := range s.imminents {
		m.ClearCycle()
	}
	s.imminents = s.imminents[:0]
	s.outputReady = false
	s.tNext = s.sched.MinPriority(s.clock.Inf)
	return t, nil
}

func (s *Simulator[X]) notifyOutput(m *atomic.Model[X], v pin.PinValue[X], t simtime.Time) {
	for _, l := range s.listeners {
		l.OutputEvent(m, v, t)
	}
}

func (s *Simulator[X]) notifyInput(m *atomic.Model[X], v pin.PinValue[X], t simtime.Time) {
	for _, l := range s.listeners {
		l.InputEvent(m, v, t)
	}
}

func (s *Simulator[X]) notifyState(m *atomic.Model[X], t simtime.Time) {
	for _, l := range s.listeners {
		l.StateChange(m, t)
	}
}

// String implements fmt.Stringer for debugging/test failure output.
func (s *Simulator[X]) String() string {
	return fmt.Sprintf("sequential.Simulator{tNext=%s, scheduled=%d}", s.tNext, s.sched.Len())
}
