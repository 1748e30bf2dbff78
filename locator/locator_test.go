package locator_test

import (
	"testing"

	"github.com/katalvlaran/devsim/locator"
	"github.com/katalvlaran/devsim/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantDer models dq/dt = 1, so q(t) tracks elapsed time exactly —
// a convenient stand-in for "t" inside a state-event function.
func constantDer(q, dq []float64) {
	dq[0] = 1
}

// zMinus17 is z(t) = t - 1.7: the zero crossing used by the linear
// locator convergence scenario.
func zMinus17(q, z []float64) {
	z[0] = q[0] - 1.7
}

func TestLinearLocator_ConvergesToRoot(t *testing.T) {
	sv := solver.NewCorrectedEuler(constantDer, 1, 1e-9, 5.0)
	lc := locator.Linear(1, 1, zMinus17, 1e-6)

	qStart := []float64{0}
	h := 5.0
	qEnd := append([]float64(nil), qStart...)
	sv.Advance(qEnd, h)

	event := make([]bool, 1)
	found := lc.FindEvents(event, qStart, qEnd, sv, &h)

	require.True(t, found)
	assert.True(t, event[0])
	assert.InDelta(t, 1.7, h, 1e-4)
}

// stepUntilEvent drives lc the way the hybrid wrapper does: a call
// that halves h past the crossing returns false with the shorter h,
// so the state advances by that h and the search starts again from
// there. It returns whether an event was found and the total time
// elapsed up to it.
func stepUntilEvent(lc locator.Locator, sv solver.Solver, event []bool) (bool, float64) {
	qStart := []float64{0}
	elapsed := 0.0
	for i := 0; i < 200; i++ {
		h := 5.0
		qEnd := append([]float64(nil), qStart...)
		sv.Advance(qEnd, h)
		found := lc.FindEvents(event, qStart, qEnd, sv, &h)
		elapsed += h
		if found {
			return true, elapsed
		}
		qStart = qEnd
	}
	return false, elapsed
}

func TestBisectionLocator_ConvergesToRoot(t *testing.T) {
	sv := solver.NewCorrectedEuler(constantDer, 1, 1e-9, 5.0)
	lc := locator.Bisection(1, 1, zMinus17, 1e-6)

	event := make([]bool, 1)
	found, elapsed := stepUntilEvent(lc, sv, event)

	require.True(t, found)
	assert.True(t, event[0])
	assert.InDelta(t, 1.7, elapsed, 1e-4)
}

func TestDiscontinuousLocator_StepTerminated(t *testing.T) {
	sv := solver.NewCorrectedEuler(constantDer, 1, 1e-9, 5.0)
	lc := locator.Discontinuous(1, 1, zMinus17, 1e-6)

	event := make([]bool, 1)
	found, elapsed := stepUntilEvent(lc, sv, event)

	require.True(t, found)
	assert.InDelta(t, 1.7, elapsed, 1e-4)
}

func TestNullLocator_NeverFindsEvents(t *testing.T) {
	sv := solver.NewCorrectedEuler(constantDer, 1, 1e-9, 5.0)
	lc := locator.Null()

	qStart := []float64{0}
	h := 5.0
	qEnd := append([]float64(nil), qStart...)
	sv.Advance(qEnd, h)

	event := make([]bool, 1)
	found := lc.FindEvents(event, qStart, qEnd, sv, &h)
	assert.False(t, found)
}

func TestFastLocator_ConvergesToRoot(t *testing.T) {
	for _, interp := range []bool{false, true} {
		sv := solver.NewCorrectedEuler(constantDer, 1, 1e-9, 5.0)
		lc := locator.NewFast(1, zMinus17, 1e-6, interp)

		qStart := []float64{0}
		h := 5.0
		qEnd := append([]float64(nil), qStart...)
		sv.Advance(qEnd, h)

		event := make([]bool, 1)
		found := lc.FindEvents(event, qStart, qEnd, sv, &h)

		require.True(t, found, "interpolate=%v", interp)
		assert.InDelta(t, 1.7, h, 1e-3, "interpolate=%v", interp)
	}
}

// TestLocators_NoCrossing_ReportsNone checks that when z never changes
// sign over the step, no locator claims an event.
func TestLocators_NoCrossing_ReportsNone(t *testing.T) {
	noCross := func(q, z []float64) { z[0] = q[0] + 10 }
	sv := solver.NewCorrectedEuler(constantDer, 1, 1e-9, 5.0)

	for name, lc := range map[string]locator.Locator{
		"bisection":     locator.Bisection(1, 1, noCross, 1e-6),
		"linear":        locator.Linear(1, 1, noCross, 1e-6),
		"discontinuous": locator.Discontinuous(1, 1, noCross, 1e-6),
		"fast":          locator.NewFast(1, noCross, 1e-6, false),
	} {
		qStart := []float64{0}
		h := 5.0
		qEnd := append([]float64(nil), qStart...)
		sv.Advance(qEnd, h)

		event := make([]bool, 1)
		found := lc.FindEvents(event, qStart, qEnd, sv, &h)
		assert.False(t, found, "locator %s should not report an event", name)
	}
}
