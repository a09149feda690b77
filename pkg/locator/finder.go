package locator

import (
	"fmt"
	"time"
)

// Finder applies targets to a scope using the session's implicit wait.
type Finder struct {
	wait time.Duration
}

// NewFinder creates a finder whose lookups wait up to implicitWait for the
// most stable rule of a target to match.
func NewFinder(implicitWait time.Duration) *Finder {
	return &Finder{wait: implicitWait}
}

// ImplicitWait returns the bound applied to every lookup.
func (f *Finder) ImplicitWait() time.Duration {
	return f.wait
}

// One returns the first element matched by target under scope.
//
// The most stable rule gets the full implicit wait to attach. Lower ranked
// rules are only probed once after that, since the page has by then had the
// whole bound to render.
func (f *Finder) One(scope Scope, target Target) (Element, error) {
	return f.resolve(scope, target, StateAttached, f.wait)
}

// Visible returns the first element matched by target once it is visible,
// waiting up to timeout instead of the implicit wait.
func (f *Finder) Visible(scope Scope, target Target, timeout time.Duration) (Element, error) {
	return f.resolve(scope, target, StateVisible, timeout)
}

// Attached is One with a caller provided bound instead of the implicit wait.
func (f *Finder) Attached(scope Scope, target Target, timeout time.Duration) (Element, error) {
	return f.resolve(scope, target, StateAttached, timeout)
}

// Present returns the current matches of the first rule that matches
// anything, without waiting. An empty result is not an error.
func (f *Finder) Present(scope Scope, target Target) ([]Element, error) {
	for _, sel := range target.Selectors() {
		elems, err := scope.Locator(sel).All()
		if err != nil {
			return nil, fmt.Errorf("enumerating %s via %s: %w", target.Name, sel, err)
		}
		if len(elems) > 0 {
			return elems, nil
		}
	}
	return nil, nil
}

func (f *Finder) resolve(scope Scope, target Target, state WaitState, timeout time.Duration) (Element, error) {
	el, _, err := f.match(scope, target, state, timeout)
	return el, err
}

func (f *Finder) match(scope Scope, target Target, state WaitState, timeout time.Duration) (Element, string, error) {
	selectors := target.Selectors()
	if len(selectors) == 0 {
		return nil, "", &NotFoundError{Target: target.Name, Wait: timeout, Err: fmt.Errorf("target has no rules")}
	}

	primary := scope.Locator(selectors[0]).First()
	waitErr := primary.WaitFor(state, timeout)
	if waitErr == nil {
		debugLog.Debugf("found %s via %s", target.Name, selectors[0])
		return primary, selectors[0], nil
	}

	for _, sel := range selectors[1:] {
		candidate := scope.Locator(sel).First()
		ok, err := inState(candidate, state)
		if err != nil {
			continue
		}
		if ok {
			debugLog.Warnf("found %s via fallback %s after primary %s failed", target.Name, sel, selectors[0])
			return candidate, sel, nil
		}
	}

	debugLog.Debugf("%s not found: %v", target.Name, waitErr)
	return nil, "", &NotFoundError{Target: target.Name, Selectors: selectors, Wait: timeout, Err: waitErr}
}

func inState(el Element, state WaitState) (bool, error) {
	n, err := el.Count()
	if err != nil || n == 0 {
		return false, err
	}
	if state == StateVisible {
		return el.IsVisible()
	}
	return true, nil
}
