package internal

import "github.com/pkg/errors"

// Threading errors through every tree rotation and chain update would bury
// the sweeps in bookkeeping. Instead, broken invariants panic with an
// InvariantError, and the public API recovers to convert them to an error.

// ErrNotFound is wrapped by every lookup failure: removing a queue entry that
// was never pushed, or locating a tree key that is not present.
var ErrNotFound = errors.New("not found")

// InvariantError is the only panic value the public API converts into an
// error. Anything else is a genuine crash and keeps propagating.
type InvariantError struct {
	error
}

func (e InvariantError) Unwrap() error {
	return e.error
}

// Panic with an InvariantError.
func fatalf(format string, args ...interface{}) {
	panic(InvariantError{errors.Errorf(format, args...)})
}

// Panic with an InvariantError wrapping ErrNotFound.
func notFoundf(format string, args ...interface{}) {
	panic(InvariantError{errors.Wrapf(ErrNotFound, format, args...)})
}

func HandlePanicRecover(r interface{}) error {
	if r != nil {
		if invariantError, ok := r.(InvariantError); ok {
			return invariantError
		}
		panic(r)
	}
	return nil
}
