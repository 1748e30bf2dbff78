package solver

import "math"

// CorrectedEuler is the adaptive, second-order-accurate RK2 method
//: two stages (k1 at q, k2 at q + 0.5*k1), step update
// q += k2, per-step error estimate max|k1 - k2|.
//
// Grounded directly on adevs's corrected_euler<ValueType> (original
// source: include/adevs/solvers/corrected_euler.h), translated to a
// value-receiver-free Go type holding the Der callback given at
// construction plus scratch buffers (no sys pointer is stored, so
// CorrectedEuler stays decoupled from any particular hybrid.System).
type CorrectedEuler struct {
	der Der
	n   int

	errTol float64
	hMax   float64
	hCur   float64

	dq, qq, t, k0, k1 []float64
}

// NewCorrectedEuler constructs a CorrectedEuler integrator for an
// n-dimensional state, with the given per-step error tolerance and
// maximum step size.
func NewCorrectedEuler(der Der, n int, errTol, hMax float64) *CorrectedEuler {
	return &CorrectedEuler{
		der:    der,
		n:      n,
		errTol: errTol,
		hMax:   hMax,
		hCur:   hMax,
		dq:     make([]float64, n),
		qq:     make([]float64, n),
		t:      make([]float64, n),
		k0:     make([]float64, n),
		k1:     make([]float64, n),
	}
}

// Integrate implements Solver shared adaptive loop.
func (c *CorrectedEuler) Integrate(q []float64, hLim float64) float64 {
	h := math.Min(c.hCur*1.1, math.Min(c.hMax, hLim))
	for {
		copy(c.qq, q)
		err := c.trialStep(h)
		if err <= c.errTol {
			if hLim >= c.hCur {
				c.hCur = h
			}
			break
		}
		hGuess := 0.8 * c.errTol * h / math.Abs(err)
		if h < hGuess {
			h *= 0.8
		} else {
			h = hGuess
		}
	}
	copy(q, c.qq)
	return h
}

// Advance implements Solver via the shared exact-step loop.
func (c *CorrectedEuler) Advance(q []float64, h float64) {
	advanceExact(q, h, c.Integrate)
}

func (c *CorrectedEuler) trialStep(step float64) float64 {
	c.der(c.qq, c.dq)
	for j := 0; j < c.n; j++ {
		c.k0[j] = step * c.dq[j]
	}
	for j := 0; j < c.n; j++ {
		c.t[j] = c.qq[j] + 0.5*c.k0[j]
	}
	c.der(c.t, c.dq)
	for j := 0; j < c.n; j++ {
		c.k1[j] = step * c.dq[j]
	}
	var err float64
	for j := 0; j < c.n; j++ {
		c.qq[j] += c.k1[j]
		if e := math.Abs(c.k0[j] - c.k1[j]); e > err {
			err = e
		}
	}
	return err
}
