// Package simerr provides the single exception type the kernel raises
// for model-contract violations: a human-readable message plus an
// optional opaque reference to the offending component. It follows the
// common sentinel-error convention (package-level sentinel errors
// checked with errors.Is) while adding the "offending component"
// payload a bare sentinel cannot carry.
package simerr

import (
	"errors"
	"fmt"
)

// Error is the kernel's single exception type. Model holds whatever
// component triggered the failure (typically a *atomic.Model[X]); it is
// untyped because Error must be constructible and catchable uniformly
// regardless of the X a given Model[X] was instantiated with.
type Error struct {
	// Msg is the human-readable description.
	Msg string
	// Model is the offending component, or nil if the failure is not
	// attributable to one (e.g. a malformed Graph call).
	Model any
	// cause is an optional wrapped sentinel, unwrapped via Unwrap so
	// callers can still branch with errors.Is on e.g. ErrNegativeTimeAdvance.
	cause error
}

// New constructs an Error with no wrapped sentinel.
func New(msg string, model any) *Error {
	return &Error{Msg: msg, Model: model}
}

// Newf constructs an Error from a wrapped sentinel plus a formatted
// message, attaching call-site context to a sentinel the way
// fmt.Errorf("%w: ...") does.
func Newf(model any, cause error, format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Model: model, cause: cause}
}

// Error implements error.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("devsim: %s: %s", e.cause, e.Msg)
	}
	return fmt.Sprintf("devsim: %s", e.Msg)
}

// Unwrap exposes the wrapped sentinel, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a *Error, so errors.Is(err, new(Error))
// style probes work without inspecting Model or Msg.
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other)
}
