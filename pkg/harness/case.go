package harness

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/onboarding"
	"github.com/entrhq/wordleprobe/pkg/telemetry"
	"github.com/entrhq/wordleprobe/pkg/types"
	"github.com/entrhq/wordleprobe/pkg/verify"
)

// Page is the live page a case drives. *browser.Session implements it.
type Page interface {
	Root() locator.Scope
	Title() (string, error)
	URL() string
	Snapshot(maxLength int) (*browser.DOMSnapshot, error)
	Screenshot(path string) error
}

// Case is the context of one test case. Setup builds it and hands it to the
// scenario; nothing in it outlives the case.
type Case struct {
	Name    string
	Page    Page
	Tracker *types.Tracker
	Help    *onboarding.HelpDialog
	Oracle  OracleConfig

	sequencer *onboarding.Sequencer
	engine    *verify.Engine
	log       *Logger

	mu     sync.Mutex
	events []*types.CaseEvent
}

func newCase(name string, oracle OracleConfig, sequencer *onboarding.Sequencer, engine *verify.Engine, log *Logger) *Case {
	return &Case{
		Name:      name,
		Tracker:   types.NewTracker(),
		Oracle:    oracle,
		sequencer: sequencer,
		engine:    engine,
		log:       log,
	}
}

// Scope is the document of the page.
func (c *Case) Scope() locator.Scope {
	return c.Page.Root()
}

// Engine returns the verification engine for the case.
func (c *Case) Engine() *verify.Engine {
	return c.engine
}

// Events returns a copy of the recorded timeline.
func (c *Case) Events() []*types.CaseEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*types.CaseEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Case) record(ev *types.CaseEvent) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

// recordTransitions records every transition after the first seen.
func (c *Case) recordTransitions(seen int) {
	history := c.Tracker.History()
	if seen > len(history) {
		return
	}
	for _, tr := range history[seen:] {
		c.record(types.NewStateChangeEvent(tr.To))
		c.log.Debugf("%s: %s -> %s", c.Name, tr.From, tr.To)
	}
}

// Advance moves the tracker and records the change.
func (c *Case) Advance(to types.State) error {
	seen := len(c.Tracker.History())
	if err := c.Tracker.Advance(to); err != nil {
		return err
	}
	c.recordTransitions(seen)
	return nil
}

// Step runs fn as a named step of the case.
func (c *Case) Step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := telemetry.StartSpan(ctx, "step."+name, telemetry.AttrScenario.String(c.Name))
	defer span.End()

	c.log.Step(name)
	c.record(types.NewStepStartEvent(name))

	seen := len(c.Tracker.History())
	err := fn(ctx)
	c.recordTransitions(seen)

	if err != nil {
		telemetry.RecordError(span, err)
		c.record(types.NewStepFailedEvent(name, err))
		debugLog.Printf("[%s] step %s failed: %v", c.Name, name, err)
		return fmt.Errorf("%s: %w", name, err)
	}

	c.record(types.NewStepEndEvent(name))
	c.log.Verbosef("%s done", name)
	return nil
}

// Onboard runs the onboarding sequence and caches the help dialog.
func (c *Case) Onboard(ctx context.Context) error {
	return c.Step(ctx, "onboard", func(ctx context.Context) error {
		dialog, err := c.sequencer.Onboard(ctx, c.Scope(), c.Tracker)
		if err != nil {
			return err
		}
		c.Help = dialog
		return nil
	})
}

// SkipHelp closes the cached help dialog, leaving the board interactive.
func (c *Case) SkipHelp(ctx context.Context) error {
	return c.Step(ctx, "skip help", func(ctx context.Context) error {
		return c.sequencer.SkipHelp(ctx, c.Help, c.Tracker)
	})
}
