package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/locator/locatortest"
	"github.com/entrhq/wordleprobe/pkg/types"
)

const testWait = 30 * time.Millisecond

type fakePage struct {
	page    *locatortest.Node
	consent *locatortest.Node
	play    *locatortest.Node
	dialog  *locatortest.Node
	close   *locatortest.Node
}

// newFakePage builds a page where Play reveals the help dialog and Close
// hides it, mirroring the live page.
func newFakePage(withConsent bool) *fakePage {
	catalog := locator.DefaultCatalog()
	fp := &fakePage{
		page:    locatortest.NewPage(),
		consent: locatortest.NewNode("consent"),
		play:    locatortest.NewNode("play"),
		dialog:  locatortest.NewNode("dialog").SetText("How To Play\nGuess the Wordle in 6 tries."),
		close:   locatortest.NewNode("close"),
	}
	if withConsent {
		fp.page.Add(catalog.Consent.Selectors()[0], fp.consent)
	}
	fp.page.Add(catalog.Play.Selectors()[0], fp.play)
	fp.dialog.Add(catalog.CloseHelp.Selectors()[0], fp.close)

	fp.play.OnClick(func(*locatortest.Node) {
		fp.page.Add(catalog.HelpDialog.Selectors()[0], fp.dialog)
	})
	fp.close.OnClick(func(*locatortest.Node) {
		fp.dialog.SetHidden(true)
	})
	return fp
}

func newSequencer(policy ConsentPolicy) *Sequencer {
	return NewSequencer(locator.DefaultCatalog(), locator.NewFinder(testWait), Options{
		Consent:      policy,
		ExplicitWait: testWait,
	})
}

func loadedTracker(t *testing.T) *types.Tracker {
	t.Helper()
	tracker := types.NewTracker()
	require.NoError(t, tracker.Advance(types.StateLoaded))
	return tracker
}

func states(tracker *types.Tracker) []types.State {
	var out []types.State
	for _, tr := range tracker.History() {
		out = append(out, tr.To)
	}
	return out
}

func TestOnboard_HappyPath(t *testing.T) {
	fp := newFakePage(true)
	tracker := loadedTracker(t)

	dialog, err := newSequencer(ConsentRequired).Onboard(context.Background(), fp.page, tracker)
	require.NoError(t, err)
	require.NotNil(t, dialog)

	assert.Equal(t, 1, fp.consent.Clicks())
	assert.Equal(t, 1, fp.play.Clicks())
	assert.Equal(t, types.StateHelpVisible, tracker.Current())
	assert.Equal(t, []types.State{
		types.StateLoaded,
		types.StateConsentCleared,
		types.StateEntered,
		types.StateHelpVisible,
	}, states(tracker))

	text, err := dialog.InnerText()
	require.NoError(t, err)
	assert.Contains(t, text, "How To Play")
	assert.False(t, dialog.Dismissed())
}

func TestOnboard_ConsentPolicies(t *testing.T) {
	tests := []struct {
		name          string
		policy        ConsentPolicy
		withConsent   bool
		wantErr       bool
		wantClicks    int
		wantConsented bool
	}{
		{name: "required and shown", policy: ConsentRequired, withConsent: true, wantClicks: 1, wantConsented: true},
		{name: "required and missing", policy: ConsentRequired, withConsent: false, wantErr: true},
		{name: "optional and shown", policy: ConsentOptional, withConsent: true, wantClicks: 1, wantConsented: true},
		{name: "optional and missing", policy: ConsentOptional, withConsent: false},
		{name: "absent ignores the control", policy: ConsentAbsent, withConsent: true, wantClicks: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := newFakePage(tt.withConsent)
			tracker := loadedTracker(t)

			_, err := newSequencer(tt.policy).Onboard(context.Background(), fp.page, tracker)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, locator.IsNotFound(err))
				assert.Contains(t, err.Error(), "consent step")
				assert.Contains(t, err.Error(), "consent button")
				assert.Equal(t, 0, fp.play.Clicks(), "play must not be clicked after a failed consent step")
				assert.Equal(t, types.StateLoaded, tracker.Current())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClicks, fp.consent.Clicks())
			assert.Equal(t, tt.wantConsented, tracker.Reached(types.StateConsentCleared))
			assert.Equal(t, types.StateHelpVisible, tracker.Current())
		})
	}
}

func TestOnboard_MissingPlay(t *testing.T) {
	fp := newFakePage(true)
	fp.page.Remove(locator.DefaultCatalog().Play.Selectors()[0])

	_, err := newSequencer(ConsentRequired).Onboard(context.Background(), fp.page, loadedTracker(t))
	require.Error(t, err)

	var nf *locator.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "play button", nf.Target)
	assert.Contains(t, err.Error(), "entry step")
}

func TestOnboard_DialogNeverAppears(t *testing.T) {
	fp := newFakePage(true)
	fp.play.OnClick(nil)
	tracker := loadedTracker(t)

	_, err := newSequencer(ConsentRequired).Onboard(context.Background(), fp.page, tracker)
	require.Error(t, err)
	assert.True(t, locator.IsNotFound(err))
	assert.Contains(t, err.Error(), "help dialog")
	assert.Equal(t, types.StateEntered, tracker.Current())
}

func TestOnboard_ClickFailure(t *testing.T) {
	fp := newFakePage(true)
	boom := errors.New("element is not attached to the DOM")
	fp.play.FailClicks(boom)

	_, err := newSequencer(ConsentRequired).Onboard(context.Background(), fp.page, loadedTracker(t))
	assert.ErrorIs(t, err, boom)
}

func TestOnboard_Cancelled(t *testing.T) {
	fp := newFakePage(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSequencer(ConsentAbsent).Onboard(ctx, fp.page, loadedTracker(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fp.play.Clicks())
}

func TestOnboard_RequiresLoadedTracker(t *testing.T) {
	fp := newFakePage(true)

	_, err := newSequencer(ConsentRequired).Onboard(context.Background(), fp.page, types.NewTracker())
	var te *types.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, types.StateUnloaded, te.From)
}

func TestSkipHelp(t *testing.T) {
	fp := newFakePage(true)
	tracker := loadedTracker(t)
	seq := newSequencer(ConsentRequired)

	dialog, err := seq.Onboard(context.Background(), fp.page, tracker)
	require.NoError(t, err)

	require.NoError(t, seq.SkipHelp(context.Background(), dialog, tracker))
	assert.Equal(t, 1, fp.close.Clicks())
	assert.True(t, dialog.Dismissed())
	assert.Equal(t, types.StateBoardInteractive, tracker.Current())

	err = seq.SkipHelp(context.Background(), dialog, tracker)
	assert.ErrorIs(t, err, ErrDialogDismissed)
	assert.Equal(t, 1, fp.close.Clicks(), "second call must not click again")
	assert.Equal(t, types.StateBoardInteractive, tracker.Current())
}

func TestSkipHelp_DialogStaysOpen(t *testing.T) {
	fp := newFakePage(true)
	fp.close.OnClick(nil)
	tracker := loadedTracker(t)
	seq := newSequencer(ConsentRequired)

	dialog, err := seq.Onboard(context.Background(), fp.page, tracker)
	require.NoError(t, err)

	err = seq.SkipHelp(context.Background(), dialog, tracker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still visible")
	assert.Equal(t, types.StateHelpDismissed, tracker.Current())
}

func TestSkipHelp_MissingCloseButton(t *testing.T) {
	fp := newFakePage(true)
	fp.dialog.Remove(locator.DefaultCatalog().CloseHelp.Selectors()[0])
	tracker := loadedTracker(t)
	seq := newSequencer(ConsentRequired)

	dialog, err := seq.Onboard(context.Background(), fp.page, tracker)
	require.NoError(t, err)

	err = seq.SkipHelp(context.Background(), dialog, tracker)
	assert.True(t, locator.IsNotFound(err))
	assert.False(t, dialog.Dismissed())
}

func TestSkipHelp_NilDialog(t *testing.T) {
	err := newSequencer(ConsentRequired).SkipHelp(context.Background(), nil, types.NewTracker())
	assert.Error(t, err)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Error(t, Options{Consent: "sometimes", ExplicitWait: time.Second}.Validate())
	assert.Error(t, Options{Consent: ConsentOptional}.Validate())
}

func TestNewSequencer_Defaults(t *testing.T) {
	seq := NewSequencer(locator.DefaultCatalog(), locator.NewFinder(testWait), Options{})
	assert.Equal(t, ConsentRequired, seq.opts.Consent)
	assert.Equal(t, DefaultExplicitWait, seq.opts.ExplicitWait)
}
