// Package hybrid adapts a piecewise-continuous system of ODEs into an
// atomic.Atomic[X], so a continuous component
// can sit in the same coupled model as purely discrete ones. It ties
// together three collaborators: System (the user's derivative, state
// event, and discrete-event callbacks), solver.Solver (numerical
// integration) and locator.Locator (zero-crossing detection), running
// the tentative-step procedure adevs calls Hybrid::tentative_step
// between every transition.
//
// Grounded on adevs's ode_system/ode_solver/event_locator/Hybrid
// (original_source: include/adevs/solvers/hybrid.h); the four
// transition bodies and the missed-output recovery path are translated
// method-for-method.
package hybrid
