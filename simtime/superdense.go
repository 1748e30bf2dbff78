package simtime

import (
	"fmt"
	"math"
)

// Superdense is time-advancing real time paired with a counter that
// breaks ties at equal real time ("superdense time"). R is the real
// component, K the tie-breaking counter.
//
// Add has two behaviors depending on the delta:
//   - a "pure-counter" delta (R == 0) advances K only, leaving R fixed;
//     this is how Epsilon and other same-instant advances behave.
//   - any delta with R != 0 advances R by that amount and resets K to
//     the delta's K (normally zero), since real-time progress starts a
//     fresh tie-breaking generation at the new instant.
type Superdense struct {
	R float64
	K int64
}

// SuperdenseZero is the domain's bottom element.
var SuperdenseZero = Superdense{R: 0, K: 0}

// SuperdenseInf is the domain's top element.
var SuperdenseInf = Superdense{R: math.Inf(1), K: 0}

// SuperdenseEpsilon is the pure-counter delta: Add-ing it advances K by
// one and leaves R untouched.
var SuperdenseEpsilon = Superdense{R: 0, K: 1}

// Compare implements Time: lexicographic on (R, K).
func (t Superdense) Compare(other Time) int {
	o := other.(Superdense)
	switch {
	case t.R < o.R:
		return -1
	case t.R > o.R:
		return 1
	case t.K < o.K:
		return -1
	case t.K > o.K:
		return 1
	default:
		return 0
	}
}

// Add implements Time per the pure-counter-delta rule described above.
func (t Superdense) Add(delta Time) Time {
	d := delta.(Superdense)
	if d.R == 0 {
		return Superdense{R: t.R, K: t.K + d.K}
	}
	return Superdense{R: t.R + d.R, K: d.K}
}

// Sub implements Time: the inverse of Add along the same axis that
// changed. Defined for deltas produced by this package; real-time
// differences reset K to zero, matching Add's generation-reset rule.
func (t Superdense) Sub(other Time) Time {
	o := other.(Superdense)
	if t.R == o.R {
		return Superdense{R: 0, K: t.K - o.K}
	}
	return Superdense{R: t.R - o.R, K: 0}
}

// IsInf implements Time.
func (t Superdense) IsInf() bool { return math.IsInf(t.R, 1) }

// IsZero implements Time.
func (t Superdense) IsZero() bool { return t.R == 0 && t.K == 0 }

// String implements Time.
func (t Superdense) String() string {
	if t.IsInf() {
		return "(+inf,0)"
	}
	return fmt.Sprintf("(%g,%d)", t.R, t.K)
}
