// Package locator implements event-location algorithms that bracket
// the first sign change of a state-event function inside a proposed
// integration step: Bisection, Linear (interpolation), Discontinuous
// (bisection with a step-size rather than value-based termination
// test), Fast (bracket narrowing with optional cubic-spline
// interpolation), and Null (for systems with no state-event functions
// at all).
//
// Follows package solver's convention of one exported interface plus
// several constructors rather than a functional-options style — event
// locators have a fixed, small parameter set (tolerance, event count)
// better expressed as constructor arguments.
package locator
