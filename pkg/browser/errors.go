package browser

import (
	"errors"
	"fmt"
)

var (
	ErrSetup          = errors.New("setup problem detected")
	ErrNotInitialized = errors.New("launcher not initialized")
	ErrSessionClosed  = errors.New("browser session closed")
)

// SetupError wraps any failure while opening a session. Stage names the step
// that failed (install, launch, context, page, navigate).
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSetup, e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSetup) true for any SetupError.
func (e *SetupError) Is(target error) bool {
	return target == ErrSetup
}

func newSetupError(stage string, err error) *SetupError {
	return &SetupError{Stage: stage, Err: err}
}

// IsSetupError reports whether err is an environment failure.
func IsSetupError(err error) bool {
	return errors.Is(err, ErrSetup)
}
