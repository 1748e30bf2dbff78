package simtime

// Time is a totally ordered timestamp. Each implementation provides a
// bottom element, a top element ("infinity"), and an Epsilon delta as
// package-level values (Float64Epsilon, SuperdenseEpsilon). Adding
// SuperdenseEpsilon to a finite Superdense t gives a value strictly
// greater than t; Float64Epsilon is zero, so adding it leaves t unchanged.
//
// Complexity: every method is O(1) for both provided implementations.
type Time interface {
	// Compare returns -1, 0, or 1 as the receiver is less than, equal
	// to, or greater than other. Comparing values of different
	// concrete types panics; the engine never mixes them.
	Compare(other Time) int

	// Add returns the receiver advanced by delta.
	Add(delta Time) Time

	// Sub returns the receiver minus other, as a delta of the same
	// concrete type. Defined only when the result is non-negative in
	// the caller's usage; implementations do not clamp.
	Sub(other Time) Time

	// IsInf reports whether this value is the domain's top element.
	IsInf() bool

	// IsZero reports whether this value is the domain's bottom element.
	IsZero() bool

	// String renders the value for logs and test failures.
	String() string
}

// Less reports whether a is strictly before b. Convenience wrapper
// around Compare for readability at call sites.
func Less(a, b Time) bool { return a.Compare(b) < 0 }

// Equal reports whether a and b compare equal.
func Equal(a, b Time) bool { return a.Compare(b) == 0 }

// Min returns whichever of a, b compares smaller. Ties return a.
func Min(a, b Time) Time {
	if b.Compare(a) < 0 {
		return b
	}
	return a
}

// Max returns whichever of a, b compares larger. Ties return a.
func Max(a, b Time) Time {
	if b.Compare(a) > 0 {
		return b
	}
	return a
}
