package verify

import (
	"errors"
	"fmt"
)

// ErrAssertion is matched by every failed comparison.
var ErrAssertion = errors.New("assertion failed")

// AssertionError reports a comparison between the page and the oracle that
// did not hold.
type AssertionError struct {
	// Check names what was compared, e.g. "tile count in row 3"
	Check    string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %s, got %s", ErrAssertion, e.Check, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrAssertion) true for any AssertionError.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

// IsAssertion reports whether err is an assertion failure.
func IsAssertion(err error) bool {
	return errors.Is(err, ErrAssertion)
}
