// Package simtime defines the totally-ordered time domain used by the
// simulation kernel: a bottom element (Zero), a top element (Inf), and
// an Epsilon delta added to a timestamp to break ties; t.Add(Epsilon)
// compares greater than t in Superdense and equal to t in Float64.
//
// Two concrete instantiations are provided:
//
//   - Float64: ordinary real-valued time. Epsilon is the zero delta;
//     tie-breaking among simultaneous events is implicit in event order.
//   - Superdense: a pair (R, K) where K breaks ties at equal real R.
//     Adding a pure-counter delta advances K only; adding anything else
//     advances R and resets K to zero.
//
// Both satisfy the Time interface, so the scheduler, graph and
// simulators are written against Time and never against a concrete
// representation.
package simtime
