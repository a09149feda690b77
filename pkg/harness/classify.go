package harness

import (
	"context"
	"errors"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/verify"
)

// FailureKind is the category a failed case is reported under.
type FailureKind string

const (
	KindNone        FailureKind = ""            // KindNone marks a passing case.
	KindEnvironment FailureKind = "environment" // KindEnvironment is a setup problem: driver, browser or navigation.
	KindLookup      FailureKind = "lookup"      // KindLookup is an element that never appeared.
	KindAssertion   FailureKind = "assertion"   // KindAssertion is a page that did not match the oracle.
	KindTeardown    FailureKind = "teardown"    // KindTeardown is a passing case whose session failed to close.
	KindCancelled   FailureKind = "cancelled"   // KindCancelled is a case interrupted by the run context.
	KindUnknown     FailureKind = "unknown"     // KindUnknown is anything else.
)

// TeardownError wraps a failure to release the session of a case.
type TeardownError struct {
	Err error
}

func (e *TeardownError) Error() string {
	return "teardown failed: " + e.Err.Error()
}

func (e *TeardownError) Unwrap() error {
	return e.Err
}

// Classify maps an error to its FailureKind. Setup errors are checked first
// since a failed navigation may also wrap a context error.
func Classify(err error) FailureKind {
	var td *TeardownError
	switch {
	case err == nil:
		return KindNone
	case browser.IsSetupError(err):
		return KindEnvironment
	case errors.As(err, &td):
		return KindTeardown
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case verify.IsAssertion(err):
		return KindAssertion
	case locator.IsNotFound(err):
		return KindLookup
	default:
		return KindUnknown
	}
}
