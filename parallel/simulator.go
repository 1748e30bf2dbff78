package parallel

import (
	"errors"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/netgraph"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/sched"
	"github.com/katalvlaran/devsim/sequential"
	"github.com/katalvlaran/devsim/simerr"
	"github.com/katalvlaran/devsim/simtime"
	"golang.org/x/sync/errgroup"
)

// ErrLookaheadImpossible names the case of a component without a
// Checkpointer implementation that would need to be rolled back. The
// engine does not return it: phase2Drain sets the logical process's
// forcedBarrier flag instead, which stops further speculation for
// it, and the run continues.
var ErrLookaheadImpossible = errors.New("parallel: component cannot save state for rollback")

// ParallelSimulator is the speculative, checkpoint-based engine:
// one LogicalProcess per atomic, executing Phase 1 (output + GVT) and
// Phase 2 (state change + garbage collection) in alternating barriers
// until GVT reaches the stop time.
type ParallelSimulator[X any] struct {
	graph *netgraph.Graph[X]
	clock sequential.Clock

	lps     []*LogicalProcess[X]
	byModel map[*atomic.Model[X]]*LogicalProcess[X]

	gvt  simtime.Time
	stop simtime.Time
}

// New builds a ParallelSimulator over every atomic currently registered
// in net's Graph(), one logical process each, scheduled by their
// initial TimeAdvance().
func New[X any](net netgraph.Network[X], clock sequential.Clock) (*ParallelSimulator[X], error) {
	g := net.Graph()
	s := &ParallelSimulator[X]{
		graph:   g,
		clock:   clock,
		byModel: make(map[*atomic.Model[X]]*LogicalProcess[X]),
		gvt:     clock.Zero,
		stop:    clock.Zero,
	}
	for i, m := range g.Atomics() {
		m.TL = clock.Zero
		m.Proc = i
		if err := scheduleFresh(m, clock); err != nil {
			return nil, err
		}
		lp := newLogicalProcess[X](i, m)
		s.lps = append(s.lps, lp)
		s.byModel[m] = lp
	}
	return s, nil
}

func scheduleFresh[X any](m *atomic.Model[X], clock sequential.Clock) error {
	ta := m.Impl.TimeAdvance()
	if simtime.Less(ta, clock.Zero) {
		return simerr.Newf(m, sched.ErrNegativeTimeAdvance, "model %q: ta()=%s", m.Name, ta)
	}
	if ta.IsInf() {
		m.TN = clock.Inf
	} else {
		m.TN = m.TL.Add(ta)
	}
	return nil
}

// GVT returns the simulator's current global virtual time.
func (s *ParallelSimulator[X]) GVT() simtime.Time { return s.gvt }

// ExecUntil runs Phase 1 / Phase 2 rounds until GVT reaches tEnd or no
// logical process has further work (every TN is Inf and every input
// queue is empty).
func (s *ParallelSimulator[X]) ExecUntil(tEnd simtime.Time) error {
	s.stop = tEnd
	for simtime.Less(s.gvt, tEnd) {
		if err := s.phase1(); err != nil {
			return err
		}
		s.reduceGVT(tEnd)
		if err := s.phase2(); err != nil {
			return err
		}
		if !s.anyWorkRemains() {
			s.gvt = tEnd
			break
		}
	}
	return nil
}

func (s *ParallelSimulator[X]) anyWorkRemains() bool {
	for _, lp := range s.lps {
		if !lp.model.TN.IsInf() {
			return true
		}
		lp.mu.Lock()
		pending := len(lp.inputQueue)
		lp.mu.Unlock()
		if pending > 0 {
			return true
		}
	}
	return false
}

// phase1 produces speculative output for every logical process whose
// next internal event is due, in parallel, then contributes each
// process's local virtual time.
func (s *ParallelSimulator[X]) phase1() error {
	var eg errgroup.Group
	for _, lp := range s.lps {
		lp := lp
		eg.Go(func() error { return s.phase1One(lp) })
	}
	return eg.Wait()
}

func (s *ParallelSimulator[X]) phase1One(lp *LogicalProcess[X]) error {
	m := lp.model
	speculateOK := !lp.forcedBarrier || simtime.Equal(m.TN, s.gvt)
	if simtime.Less(m.TN, s.stop) && lp.computeOutput && speculateOK {
		var yb []pin.PinValue[X]
		m.Impl.Output(&yb)
		var endpoints []netgraph.Endpoint[X]
		for _, v := range yb {
			endpoints = endpoints[:0]
			s.graph.Route(v.Pin, &endpoints)
			for _, ep := range endpoints {
				dst, ok := s.byModel[ep.Model]
				if !ok {
					continue
				}
				msg := message[X]{dst: dst, timeStamp: m.TN, value: pin.PinValue[X]{Pin: ep.Pin, Value: v.Value}}
				dst.enqueue(msg)
				lp.sentOutput = append(lp.sentOutput, msg)
			}
		}
		lp.computeOutput = false
	}
	lvt := m.TN
	if len(lp.sentOutput) > 0 && simtime.Less(lp.sentOutput[0].timeStamp, lvt) {
		lvt = lp.sentOutput[0].timeStamp
	}
	lp.lvt = lvt
	return nil
}

// reduceGVT folds every logical process's local virtual time into the
// shared GVT, capped at the stop time.
func (s *ParallelSimulator[X]) reduceGVT(stop simtime.Time) {
	g := s.clock.Inf
	for _, lp := range s.lps {
		if simtime.Less(lp.lvt, g) {
			g = lp.lvt
		}
	}
	if simtime.Less(stop, g) {
		g = stop
	}
	s.gvt = g
}

// phase2 runs the drain/rollback sub-step and the compute/GC sub-step
// as two successive barriers, guaranteeing every rollback's
// cancellations are visible before any logical process computes a new
// state from its input queue.
func (s *ParallelSimulator[X]) phase2() error {
	var eg errgroup.Group
	for _, lp := range s.lps {
		lp := lp
		eg.Go(func() error { return s.phase2Drain(lp) })
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	var eg2 errgroup.Group
	for _, lp := range s.lps {
		lp := lp
		eg2.Go(func() error { return s.phase2Compute(lp) })
	}
	return eg2.Wait()
}

func (s *ParallelSimulator[X]) phase2Drain(lp *LogicalProcess[X]) error {
	m := lp.model
	due := lp.drainAt(s.gvt)
	lp.pendingInputs = due
	lp.rollback = simtime.Less(s.gvt, m.TL)

	if lp.rollback {
		if !lp.canCheckpoint {
			lp.forcedBarrier = true
		} else {
			s.restore(lp)
		}
		for _, sent := range lp.sentOutput {
			if simtime.Less(s.gvt, sent.timeStamp) {
				sent.dst.cancel(sent)
			}
		}
		lp.sentOutput = gcMessages(lp.sentOutput, s.gvt)
	} else if len(due) > 0 && lp.canCheckpoint {
		cp, ok := lp.model.Impl.(Checkpointer[X])
		if ok {
			lp.checkpoints = append(lp.checkpoints, newCheckpoint(m.TL, m.TN, cp.MakeCheckpoint()))
		}
	}
	return nil
}

func (s *ParallelSimulator[X]) restore(lp *LogicalProcess[X]) {
	lp.checkpoints = dropCheckpointsAfter(lp.checkpoints, s.gvt)
	if len(lp.checkpoints) == 0 {
		return
	}
	latest := lp.checkpoints[len(lp.checkpoints)-1]
	lp.model.TL = latest.tL
	lp.model.TN = latest.tN
	if cp, ok := lp.model.Impl.(Checkpointer[X]); ok {
		cp.RestoreCheckpoint(latest.blob)
	}
}

func (s *ParallelSimulator[X]) phase2Compute(lp *LogicalProcess[X]) error {
	m := lp.model
	due := lp.pendingInputs

	var err error
	switch {
	case len(due) == 0 && simtime.Less(m.TN, s.stop):
		m.Impl.DeltaInt()
		m.TL = m.TN.Add(s.clock.Epsilon)
		lp.computeOutput = true
		err = s.rescheduleOne(m)
	case len(due) > 0 && simtime.Less(s.gvt, m.TN):
		m.Impl.DeltaExt(s.gvt.Sub(m.TL), toPinValues(due))
		m.TL = s.gvt.Add(s.clock.Epsilon)
		lp.computeOutput = true
		err = s.rescheduleOne(m)
	case len(due) > 0:
		m.Impl.DeltaConf(toPinValues(due))
		m.TL = s.gvt.Add(s.clock.Epsilon)
		lp.computeOutput = true
		err = s.rescheduleOne(m)
	}
	if err != nil {
		return err
	}

	lp.sentOutput = gcMessages(lp.sentOutput, s.gvt)
	lp.checkpoints = gcCheckpoints(lp.checkpoints, s.gvt)
	return nil
}

func (s *ParallelSimulator[X]) rescheduleOne(m *atomic.Model[X]) error {
	ta := m.Impl.TimeAdvance()
	if simtime.Less(ta, s.clock.Zero) {
		return simerr.Newf(m, sched.ErrNegativeTimeAdvance, "model %q: ta()=%s", m.Name, ta)
	}
	if ta.IsInf() {
		m.TN = s.clock.Inf
	} else {
		m.TN = m.TL.Add(ta)
	}
	return nil
}

func toPinValues[X any](msgs []message[X]) []pin.PinValue[X] {
	out := make([]pin.PinValue[X], len(msgs))
	for i, m := range msgs {
		out[i] = m.value
	}
	return out
}

func gcMessages[X any](msgs []message[X], gvt simtime.Time) []message[X] {
	kept := msgs[:0]
	for _, m := range msgs {
		if simtime.Less(gvt, m.timeStamp) {
			kept = append(kept, m)
		}
	}
	return kept
}

// gcCheckpoints is the steady-state GC step: it drops checkpoints
// older than the newest one whose tL is strictly below gvt, keeping
// that one and every later checkpoint for a future rollback to land on.
// It never drops a checkpoint newer than gvt — that is restore's job,
// via dropCheckpointsAfter, not this function's.
func gcCheckpoints(cps []checkpoint, gvt simtime.Time) []checkpoint {
	newestBelow := -1
	for i, cp := range cps {
		if simtime.Less(cp.tL, gvt) {
			newestBelow = i
		}
	}
	if newestBelow <= 0 {
		return cps
	}
	return cps[newestBelow:]
}

// dropCheckpointsAfter keeps only checkpoints timestamped at or before
// gvt, discarding any taken ahead of it. Used exclusively by restore:
// rolling back to gvt must never pick a checkpoint from beyond that
// point, which is exactly what gcCheckpoints' drop-older-prefix rule
// would do if reused here (it leaves newer entries untouched).
func dropCheckpointsAfter(cps []checkpoint, gvt simtime.Time) []checkpoint {
	kept := cps[:0]
	for _, cp := range cps {
		if simtime.Less(cp.tL, gvt) || simtime.Equal(cp.tL, gvt) {
			kept = append(kept, cp)
		}
	}
	return kept
}
