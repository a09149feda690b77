package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/wordleprobe/pkg/locator"
)

// Session is one live browser bound to one verification case.
type Session struct {
	// ID uniquely identifies the session in logs and artifacts
	ID string

	// Browser is nil when the session runs on a persistent profile
	Browser playwright.Browser

	// Context is the isolated browser context
	Context playwright.BrowserContext

	// Page is the single page the case drives
	Page playwright.Page

	TargetURL    string
	Headless     bool
	ImplicitWait time.Duration
	CreatedAt    time.Time

	mu      sync.Mutex
	closers []namedCloser
	closed  bool
}

type namedCloser struct {
	name string
	fn   func() error
}

func (s *Session) addCloser(name string, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, namedCloser{name: name, fn: fn})
}

func (s *Session) close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	return closeAll(closers)
}

// Alive reports whether the session has not been closed.
func (s *Session) Alive() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Root returns the locator scope for the whole page.
func (s *Session) Root() locator.Scope {
	return locator.FromPage(s.Page)
}

// Title returns the current document title.
func (s *Session) Title() (string, error) {
	if !s.Alive() {
		return "", ErrSessionClosed
	}
	return s.Page.Title()
}

// URL returns the current page URL.
func (s *Session) URL() string {
	if !s.Alive() {
		return ""
	}
	return s.Page.URL()
}

// Snapshot captures the page DOM, cleaned for diagnostics.
func (s *Session) Snapshot(maxLength int) (*DOMSnapshot, error) {
	if !s.Alive() {
		return nil, ErrSessionClosed
	}
	raw, err := s.Page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return CleanDOM(raw, maxLength)
}

// Screenshot writes a full-page PNG to path.
func (s *Session) Screenshot(path string) error {
	if !s.Alive() {
		return ErrSessionClosed
	}
	_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return nil
}
