package parallel

import (
	"sync"

	"github.com/katalvlaran/devsim/atomic"
	"github.com/katalvlaran/devsim/pin"
	"github.com/katalvlaran/devsim/simtime"
)

// message is one value in transit between two logical processes' input
// queues, timestamped with the simulated instant it is due.
type message[X any] struct {
	dst       *LogicalProcess[X]
	timeStamp simtime.Time
	value     pin.PinValue[X]
}

// LogicalProcess wraps one atomic component for the parallel engine
//: its pending input queue (lock-protected, since
// delivery races with this process's own Phase 1), its speculative
// output history (for cancellation and garbage collection), and its
// checkpoint stack (for rollback).
type LogicalProcess[X any] struct {
	model *atomic.Model[X]
	index int

	canCheckpoint bool
	forcedBarrier bool // set once a non-checkpointing rollback is avoided

	mu         sync.Mutex
	inputQueue []message[X]

	sentOutput  []message[X]
	checkpoints []checkpoint

	computeOutput bool
	lvt           simtime.Time

	// pendingInputs and rollback are round-scoped hand-off state
	// between Phase 2's drain/rollback sub-step and its compute/GC
	// sub-step; both run in the same goroutine per LP, never read by
	// any other logical process.
	pendingInputs []message[X]
	rollback      bool
}

func newLogicalProcess[X any](index int, m *atomic.Model[X]) *LogicalProcess[X] {
	_, ok := m.Impl.(Checkpointer[X])
	return &LogicalProcess[X]{
		model:         m,
		index:         index,
		canCheckpoint: ok,
		computeOutput: true,
	}
}

// Model returns the atomic.Model this logical process wraps.
func (lp *LogicalProcess[X]) Model() *atomic.Model[X] { return lp.model }

// enqueue appends msg to the input queue under lock; called by a peer
// logical process routing its Phase 1 output.
func (lp *LogicalProcess[X]) enqueue(msg message[X]) {
	lp.mu.Lock()
	lp.inputQueue = append(lp.inputQueue, msg)
	lp.mu.Unlock()
}

// cancel removes the first queued message with msg's timestamp and pin
// — the anti-message for a rolled-back output. Values are not compared.
func (lp *LogicalProcess[X]) cancel(msg message[X]) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for i, m := range lp.inputQueue {
		if simtime.Equal(m.timeStamp, msg.timeStamp) && m.value.Pin == msg.value.Pin {
			lp.inputQueue = append(lp.inputQueue[:i], lp.inputQueue[i+1:]...)
			return
		}
	}
}

// drainAt removes and returns every queued message due exactly at t.
func (lp *LogicalProcess[X]) drainAt(t simtime.Time) []message[X] {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	var due []message[X]
	var rest []message[X]
	for _, m := range lp.inputQueue {
		if simtime.Equal(m.timeStamp, t) {
			due = append(due, m)
		} else {
			rest = append(rest, m)
		}
	}
	lp.inputQueue = rest
	return due
}
