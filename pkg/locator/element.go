package locator

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// WaitState is the element state a wait blocks for.
type WaitState string

const (
	StateAttached WaitState = "attached"
	StateDetached WaitState = "detached"
	StateVisible  WaitState = "visible"
	StateHidden   WaitState = "hidden"
)

// Scope is anything elements can be searched under: the page or an element.
type Scope interface {
	Locator(selector string) Element
}

// Element is a lazily evaluated handle to zero or more DOM elements.
type Element interface {
	Scope

	// First narrows the handle to the first match in document order.
	First() Element
	// Count returns the number of current matches.
	Count() (int, error)
	// All returns one handle per current match, in document order.
	All() ([]Element, error)
	// WaitFor blocks until the element reaches state or timeout elapses.
	// A zero timeout uses the session default.
	WaitFor(state WaitState, timeout time.Duration) error
	// Click waits for actionability and clicks.
	Click(timeout time.Duration) error
	// InnerText returns the rendered text.
	InnerText() (string, error)
	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) (string, error)
	IsVisible() (bool, error)
}

// FromPage returns a Scope rooted at a Playwright page.
func FromPage(page playwright.Page) Scope {
	return &pageScope{page: page}
}

// FromLocator wraps a Playwright locator.
func FromLocator(loc playwright.Locator) Element {
	return &pwElement{loc: loc}
}

type pageScope struct {
	page playwright.Page
}

func (s *pageScope) Locator(selector string) Element {
	return &pwElement{loc: s.page.Locator(selector)}
}

type pwElement struct {
	loc playwright.Locator
}

func (e *pwElement) Locator(selector string) Element {
	return &pwElement{loc: e.loc.Locator(selector)}
}

func (e *pwElement) First() Element {
	return &pwElement{loc: e.loc.First()}
}

func (e *pwElement) Count() (int, error) {
	return e.loc.Count()
}

func (e *pwElement) All() ([]Element, error) {
	locs, err := e.loc.All()
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(locs))
	for _, l := range locs {
		out = append(out, &pwElement{loc: l})
	}
	return out, nil
}

func (e *pwElement) WaitFor(state WaitState, timeout time.Duration) error {
	s := playwright.WaitForSelectorState(state)
	return e.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   &s,
		Timeout: millis(timeout),
	})
}

func (e *pwElement) Click(timeout time.Duration) error {
	return e.loc.Click(playwright.LocatorClickOptions{
		Timeout: millis(timeout),
	})
}

func (e *pwElement) InnerText() (string, error) {
	return e.loc.InnerText()
}

func (e *pwElement) Attribute(name string) (string, error) {
	return e.loc.GetAttribute(name)
}

func (e *pwElement) IsVisible() (bool, error) {
	return e.loc.IsVisible()
}

// millis converts a duration to Playwright's millisecond timeout; zero or
// negative durations leave the option unset.
func millis(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}
