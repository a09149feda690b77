package verify

import (
	"fmt"
	"time"

	"github.com/entrhq/wordleprobe/pkg/locator"
)

// Default oracle values for the published page.
const (
	DefaultRows             = 6
	DefaultColumns          = 5
	DefaultRejectionMessage = "Not in word list"
)

// Waits holds the bounds of every wait the harness performs.
type Waits struct {
	// Implicit bounds each element lookup and click
	Implicit time.Duration `yaml:"implicit" json:"implicit"`

	// Explicit bounds condition waits: consent, dialog hide, row class, toast
	Explicit time.Duration `yaml:"explicit" json:"explicit"`

	// Board bounds the wait for the board root
	Board time.Duration `yaml:"board" json:"board"`

	// Settle is how long an accepted word must leave the page unchanged
	Settle time.Duration `yaml:"settle" json:"settle"`

	// Poll is the interval between condition checks
	Poll time.Duration `yaml:"poll" json:"poll"`
}

// DefaultWaits returns the wait bounds tuned for the live page.
func DefaultWaits() Waits {
	return Waits{
		Implicit: 20 * time.Second,
		Explicit: 10 * time.Second,
		Board:    2 * time.Second,
		Settle:   time.Second,
		Poll:     100 * time.Millisecond,
	}
}

// Validate checks that every bound is positive and the poll interval fits
// inside the shortest condition wait.
func (w Waits) Validate() error {
	bounds := []struct {
		name string
		d    time.Duration
	}{
		{"implicit", w.Implicit},
		{"explicit", w.Explicit},
		{"board", w.Board},
		{"settle", w.Settle},
		{"poll", w.Poll},
	}
	for _, b := range bounds {
		if b.d <= 0 {
			return fmt.Errorf("waits.%s must be positive, got %s", b.name, b.d)
		}
	}
	if w.Poll > w.Explicit || w.Poll > w.Settle {
		return fmt.Errorf("waits.poll (%s) must not exceed waits.explicit or waits.settle", w.Poll)
	}
	return nil
}

// Engine runs input and verification steps against one page.
type Engine struct {
	catalog   *locator.Catalog
	finder    *locator.Finder
	waits     Waits
	rejection string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRejectionMessage overrides the toast text expected for a rejected word.
func WithRejectionMessage(msg string) Option {
	return func(e *Engine) {
		e.rejection = msg
	}
}

// NewEngine creates an engine. The finder carries the implicit wait; waits
// supplies the explicit bounds.
func NewEngine(catalog *locator.Catalog, finder *locator.Finder, waits Waits, opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog,
		finder:    finder,
		waits:     waits,
		rejection: DefaultRejectionMessage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Waits returns the engine's wait bounds.
func (e *Engine) Waits() Waits {
	return e.waits
}
