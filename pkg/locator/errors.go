package locator

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is matched by every lookup failure.
var ErrNotFound = errors.New("element not found")

// NotFoundError reports that no rule of a target matched within the wait.
type NotFoundError struct {
	Target    string
	Selectors []string
	Wait      time.Duration
	Err       error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found (tried %s) within %s", ErrNotFound, e.Target, strings.Join(e.Selectors, ", "), e.Wait)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
