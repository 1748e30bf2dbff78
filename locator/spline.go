package locator

// cubicSpline is a cubic Hermite interpolant over a single step [0, h],
// fit to match value and derivative at both endpoints. Grounded on
// adevs's spline<ValueType> (original_source/include/adevs/solvers/spline.h).
type cubicSpline struct {
	a, b, c, d float64
}

// fit computes the spline coefficients for one scalar component given
// the value/derivative pair at each end of a step of length h.
func (s *cubicSpline) fit(q0, dq0, qh, dqh, h float64) {
	// a*h^3 + b*h^2 + c*h + d = qh, with d = q0, c = dq0, and the
	// derivative-matching condition at h giving two equations in a, b.
	s.d = q0
	s.c = dq0
	if h == 0 {
		s.a, s.b = 0, 0
		return
	}
	h2 := h * h
	h3 := h2 * h
	// Solve:
	//   a*h^3 + b*h^2 = qh - q0 - dq0*h
	//   3*a*h^2 + 2*b*h = dqh - dq0
	rhs1 := qh - q0 - dq0*h
	rhs2 := dqh - dq0
	// From the second equation: b = (rhs2 - 3*a*h^2) / (2*h)
	// Substitute into the first: a*h^3 + h^2*(rhs2 - 3*a*h^2)/(2*h) = rhs1
	// => a*h^3 + h*rhs2/2 - 1.5*a*h^3 = rhs1
	// => -0.5*a*h^3 = rhs1 - h*rhs2/2
	// => a = (h*rhs2/2 - rhs1) / (0.5*h^3)
	s.a = (0.5*h*rhs2 - rhs1) / (0.5 * h3)
	s.b = (rhs2 - 3.0*s.a*h2) / (2.0 * h)
}

// eval returns the interpolated value at offset t from the step start.
func (s *cubicSpline) eval(t float64) float64 {
	return s.a*t*t*t + s.b*t*t + s.c*t + s.d
}
