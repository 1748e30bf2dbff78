package simtime

import (
	"math"
	"strconv"
)

// Float64 is the ordinary real-valued time domain. Epsilon is zero: two
// events at the same Float64 value are genuinely simultaneous and the
// engine does not attempt to order them.
type Float64 float64

// Float64Zero is the domain's bottom element.
const Float64Zero Float64 = 0

// Float64Inf is the domain's top element.
var Float64Inf = Float64(math.Inf(1))

// Float64Epsilon is the zero delta for this domain: adding it never
// changes a Float64 value. It exists so code generic over Time can ask
// "what is this domain's epsilon" without a type switch, even though
// here it is a no-op by construction (spec: epsilon = 0 for real time).
const Float64Epsilon Float64 = 0

// Compare implements Time.
func (t Float64) Compare(other Time) int {
	o := other.(Float64)
	switch {
	case t < o:
		return -1
	case t > o:
		return 1
	default:
		return 0
	}
}

// Add implements Time.
func (t Float64) Add(delta Time) Time {
	return t + delta.(Float64)
}

// Sub implements Time.
func (t Float64) Sub(other Time) Time {
	return t - other.(Float64)
}

// IsInf implements Time.
func (t Float64) IsInf() bool { return math.IsInf(float64(t), 1) }

// IsZero implements Time.
func (t Float64) IsZero() bool { return t == Float64Zero }

// String implements Time.
func (t Float64) String() string {
	if t.IsInf() {
		return "+inf"
	}
	return strconv.FormatFloat(float64(t), 'g', -1, 64)
}
