package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/telemetry"
	"github.com/entrhq/wordleprobe/pkg/types"
)

// DefaultExplicitWait bounds the consent button and the dialog closing.
const DefaultExplicitWait = 10 * time.Second

// ErrDialogDismissed is returned by SkipHelp for a dialog it already closed.
var ErrDialogDismissed = errors.New("help dialog already dismissed")

// ConsentPolicy controls how the consent interstitial is handled.
type ConsentPolicy string

const (
	// ConsentRequired fails onboarding when the consent control never shows.
	ConsentRequired ConsentPolicy = "required"
	// ConsentOptional clicks the control when it shows and moves on when not.
	ConsentOptional ConsentPolicy = "optional"
	// ConsentAbsent does not look for the control at all.
	ConsentAbsent ConsentPolicy = "absent"
)

// Valid reports whether p is a known policy.
func (p ConsentPolicy) Valid() bool {
	switch p {
	case ConsentRequired, ConsentOptional, ConsentAbsent:
		return true
	}
	return false
}

// Options configures a Sequencer.
type Options struct {
	Consent ConsentPolicy `yaml:"consent" json:"consent"`

	// ExplicitWait bounds the consent control and the dialog closing. It is
	// not read from config; callers set it from their run-wide explicit wait.
	ExplicitWait time.Duration `yaml:"-" json:"-"`
}

// DefaultOptions returns the options for the published page in a fresh profile.
func DefaultOptions() Options {
	return Options{
		Consent:      ConsentRequired,
		ExplicitWait: DefaultExplicitWait,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if !o.Consent.Valid() {
		return fmt.Errorf("invalid consent policy %q (want required, optional or absent)", o.Consent)
	}
	if o.ExplicitWait <= 0 {
		return fmt.Errorf("explicit wait must be positive")
	}
	return nil
}

// HelpDialog is the located help dialog, kept for the rest of a case.
type HelpDialog struct {
	root locator.Element

	mu        sync.Mutex
	dismissed bool
}

// NewHelpDialog wraps an already located dialog root.
func NewHelpDialog(root locator.Element) *HelpDialog {
	return &HelpDialog{root: root}
}

// Root returns the dialog's root element.
func (d *HelpDialog) Root() locator.Element {
	return d.root
}

// InnerText returns the dialog's rendered text in one read.
func (d *HelpDialog) InnerText() (string, error) {
	return d.root.InnerText()
}

// Dismissed reports whether SkipHelp closed this dialog.
func (d *HelpDialog) Dismissed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dismissed
}

// Sequencer runs the onboarding steps against one page.
type Sequencer struct {
	catalog *locator.Catalog
	finder  *locator.Finder
	opts    Options
}

// NewSequencer creates a sequencer. Zero option fields fall back to defaults.
func NewSequencer(catalog *locator.Catalog, finder *locator.Finder, opts Options) *Sequencer {
	if opts.Consent == "" {
		opts.Consent = ConsentRequired
	}
	if opts.ExplicitWait <= 0 {
		opts.ExplicitWait = DefaultExplicitWait
	}
	return &Sequencer{catalog: catalog, finder: finder, opts: opts}
}

// Onboard clears the consent control, clicks Play and locates the help
// dialog. The tracker must be in the loaded state and ends in help_visible.
func (s *Sequencer) Onboard(ctx context.Context, scope locator.Scope, tracker *types.Tracker) (*HelpDialog, error) {
	ctx, span := telemetry.StartSpan(ctx, "onboarding.onboard",
		telemetry.AttrConsent.String(string(s.opts.Consent)))
	defer span.End()

	dialog, err := s.onboard(ctx, scope, tracker)
	telemetry.RecordError(span, err)
	return dialog, err
}

func (s *Sequencer) onboard(ctx context.Context, scope locator.Scope, tracker *types.Tracker) (*HelpDialog, error) {
	if err := s.consent(ctx, scope, tracker); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	play, err := s.finder.One(scope, s.catalog.Play)
	if err != nil {
		return nil, fmt.Errorf("entry step: %w", err)
	}
	if err := play.Click(s.finder.ImplicitWait()); err != nil {
		return nil, fmt.Errorf("entry step: clicking %s: %w", s.catalog.Play.Name, err)
	}
	if err := tracker.Advance(types.StateEntered); err != nil {
		return nil, err
	}
	debugLog.Debugf("entered game")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := s.finder.One(scope, s.catalog.HelpDialog)
	if err != nil {
		return nil, fmt.Errorf("help dialog step: %w", err)
	}
	if err := tracker.Advance(types.StateHelpVisible); err != nil {
		return nil, err
	}
	debugLog.Debugf("help dialog located")

	return NewHelpDialog(root), nil
}

func (s *Sequencer) consent(ctx context.Context, scope locator.Scope, tracker *types.Tracker) error {
	if s.opts.Consent == ConsentAbsent {
		debugLog.Debugf("consent step skipped by policy")
		return nil
	}

	_, span := telemetry.StartSpan(ctx, "onboarding.consent")
	defer span.End()

	button, err := s.finder.Visible(scope, s.catalog.Consent, s.opts.ExplicitWait)
	if err != nil {
		if s.opts.Consent == ConsentOptional && locator.IsNotFound(err) {
			debugLog.Infof("consent control not shown within %s, continuing", s.opts.ExplicitWait)
			return nil
		}
		telemetry.RecordError(span, err)
		return fmt.Errorf("consent step: %w", err)
	}
	if err := button.Click(s.opts.ExplicitWait); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("consent step: clicking %s: %w", s.catalog.Consent.Name, err)
	}
	debugLog.Debugf("consent acknowledged")
	return tracker.Advance(types.StateConsentCleared)
}

// SkipHelp closes the help dialog and waits for it to hide. It must be called
// at most once per dialog; a second call returns ErrDialogDismissed without
// touching the page. The tracker ends in board_interactive.
func (s *Sequencer) SkipHelp(ctx context.Context, dialog *HelpDialog, tracker *types.Tracker) error {
	if dialog == nil {
		return fmt.Errorf("skip help: no help dialog located")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, span := telemetry.StartSpan(ctx, "onboarding.skip_help")
	defer span.End()

	dialog.mu.Lock()
	defer dialog.mu.Unlock()
	if dialog.dismissed {
		return ErrDialogDismissed
	}

	closeButton, err := s.finder.One(dialog.root, s.catalog.CloseHelp)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("skip help: %w", err)
	}
	if err := closeButton.Click(s.finder.ImplicitWait()); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("skip help: clicking %s: %w", s.catalog.CloseHelp.Name, err)
	}
	dialog.dismissed = true

	if err := tracker.Advance(types.StateHelpDismissed); err != nil {
		return err
	}
	if err := dialog.root.WaitFor(locator.StateHidden, s.opts.ExplicitWait); err != nil {
		err = fmt.Errorf("skip help: %s still visible after %s: %w", s.catalog.HelpDialog.Name, s.opts.ExplicitWait, err)
		telemetry.RecordError(span, err)
		return err
	}
	debugLog.Debugf("help dialog dismissed")
	return tracker.Advance(types.StateBoardInteractive)
}
