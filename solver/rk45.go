package solver

import "math"

// RK45 is the Fehlberg-style six-stage integrator: order
// 5 propagated, order 4 error estimate, with per-step rejection if the
// componentwise-max error exceeds tolerance.
//
// Grounded directly on adevs's rk_45<ValueType> (original source:
// include/adevs/solvers/rk_45.h); stage coefficients and the error
// estimator are reproduced exactly.
type RK45 struct {
	der Der
	n   int

	errTol float64
	hMax   float64
	hCur   float64

	dq, qq, t []float64
	k         [6][]float64
}

// NewRK45 constructs an RK45 integrator for an n-dimensional state,
// with the given per-step error tolerance and maximum step size.
func NewRK45(der Der, n int, errTol, hMax float64) *RK45 {
	r := &RK45{
		der:    der,
		n:      n,
		errTol: errTol,
		hMax:   hMax,
		hCur:   hMax,
		dq:     make([]float64, n),
		qq:     make([]float64, n),
		t:      make([]float64, n),
	}
	for i := range r.k {
		r.k[i] = make([]float64, n)
	}
	return r
}

// Integrate implements Solver shared adaptive loop,
// using RK4/5's shrink formula h_guess = 0.8 * (tol * h^4 / |err|)^(1/4).
func (r *RK45) Integrate(q []float64, hLim float64) float64 {
	h := math.Min(r.hCur*1.1, math.Min(r.hMax, hLim))
	for {
		copy(r.qq, q)
		err := r.trialStep(h)
		if err <= r.errTol {
			if r.hCur <= hLim {
				r.hCur = h
			}
			break
		}
		hGuess := 0.8 * math.Pow(r.errTol*math.Pow(h, 4.0)/math.Abs(err), 0.25)
		if h < hGuess {
			h *= 0.8
		} else {
			h = hGuess
		}
	}
	copy(q, r.qq)
	return h
}

// Advance implements Solver via the shared exact-step loop.
func (r *RK45) Advance(q []float64, h float64) {
	advanceExact(q, h, r.Integrate)
}

func (r *RK45) trialStep(step float64) float64 {
	n := r.n
	qq, t, dq, k := r.qq, r.t, r.dq, &r.k

	r.der(qq, dq)
	for j := 0; j < n; j++ {
		k[0][j] = step * dq[j]
	}

	for j := 0; j < n; j++ {
		t[j] = qq[j] + 0.5*k[0][j]
	}
	r.der(t, dq)
	for j := 0; j < n; j++ {
		k[1][j] = step * dq[j]
	}

	for j := 0; j < n; j++ {
		t[j] = qq[j] + 0.25*(k[0][j]+k[1][j])
	}
	r.der(t, dq)
	for j := 0; j < n; j++ {
		k[2][j] = step * dq[j]
	}

	for j := 0; j < n; j++ {
		t[j] = qq[j] - k[1][j] + 2.0*k[2][j]
	}
	r.der(t, dq)
	for j := 0; j < n; j++ {
		k[3][j] = step * dq[j]
	}

	for j := 0; j < n; j++ {
		t[j] = qq[j] + (7.0/27.0)*k[0][j] + (10.0/27.0)*k[1][j] + (1.0/27.0)*k[3][j]
	}
	r.der(t, dq)
	for j := 0; j < n; j++ {
		k[4][j] = step * dq[j]
	}

	for j := 0; j < n; j++ {
		t[j] = qq[j] + (28.0/625.0)*k[0][j] - 0.2*k[1][j] + (546.0/625.0)*k[2][j] +
			(54.0/625.0)*k[3][j] - (378.0/625.0)*k[4][j]
	}
	r.der(t, dq)
	for j := 0; j < n; j++ {
		k[5][j] = step * dq[j]
	}

	var err float64
	for j := 0; j < n; j++ {
		qq[j] += (1.0/24.0)*k[0][j] + (5.0/48.0)*k[3][j] + (27.0/56.0)*k[4][j] + (125.0/336.0)*k[5][j]
		e := math.Abs(k[0][j]/8.0 + 2.0*k[2][j]/3.0 + k[3][j]/16.0 - 27.0*k[4][j]/56.0 - 125.0*k[5][j]/336.0)
		if e > err {
			err = e
		}
	}
	return err
}
