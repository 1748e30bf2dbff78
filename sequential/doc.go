// Package sequential implements the classical DEVS resolution loop on
// top of netgraph and sched: a single-threaded, two-phase tick that
// computes the imminent set's output, routes it through the graph,
// folds in injected input, and resolves each affected atomic's
// internal / external / confluent transition.
//
// The simulator is cooperative and single-threaded: no operation
// suspends, and cancellation is simply not calling ExecNextEvent
// again. Listener callbacks follow a small interface type registered
// with AddEventListener, fired synchronously from within the tick that
// produced the event.
package sequential
