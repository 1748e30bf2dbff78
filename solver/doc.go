// Package solver provides the pluggable ODE integrators the hybrid
// wrapper (package hybrid) drives: an adaptive corrected-Euler (RK2)
// method and a Fehlberg-style RK4/5 method, both sharing one
// error-adaptive step loop — grow the step by 10% each attempt, accept
// if the local error estimate is within tolerance, otherwise shrink
// using a method-specific formula and retry.
//
// Translated into the idiomatic-Go shape the rest of this module uses:
// a small interface (Solver) plus concrete constructors taking the
// state dimension and tolerances, rather than a Go-specific numerical
// API designed from scratch.
package solver
