//go:build acceptance
// +build acceptance

package harness

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/fixture"
	"github.com/entrhq/wordleprobe/pkg/onboarding"
	"github.com/entrhq/wordleprobe/pkg/types"
)

// TestMain installs the Playwright driver and Chromium before running tests.
func TestMain(m *testing.M) {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		log.Fatalf("could not install playwright: %v", err)
	}
	os.Exit(m.Run())
}

// acceptanceConfig targets url with a visible browser when HEADLESS=false.
func acceptanceConfig(t *testing.T, url string) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TargetURL = url
	cfg.Browser.Headless = os.Getenv("HEADLESS") != "false"
	cfg.Artifacts.OutputDir = t.TempDir()
	cfg.Logging.Verbosity = "verbose"
	return cfg
}

func runAcceptance(t *testing.T, cfg *Config) *RunSummary {
	t.Helper()
	backend := NewBrowserBackend(browser.NewLauncher(browser.WithoutInstall()))
	r, err := NewRunner(cfg, WithBackend(backend))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := r.Run(ctx)
	require.NoError(t, err)
	return summary
}

func serveFixture(t *testing.T, opts fixture.Options) string {
	t.Helper()
	srv := httptest.NewServer(fixture.NewHandler(opts))
	t.Cleanup(srv.Close)
	return srv.URL + fixture.PagePath
}

func TestAcceptance_FixtureSuite(t *testing.T) {
	url := serveFixture(t, fixture.DefaultOptions())
	summary := runAcceptance(t, acceptanceConfig(t, url))

	require.Len(t, summary.Results, 4)
	for _, res := range summary.Results {
		assert.Equal(t, statusPassed, res.Status, "%s: %s", res.Name, res.Error)
		assert.Equal(t, types.StateClosed, res.FinalState)
		assert.NotEmpty(t, res.SessionID)
	}
	assert.True(t, summary.OK())
}

func TestAcceptance_FixtureTitle(t *testing.T) {
	url := serveFixture(t, fixture.DefaultOptions())
	cfg := acceptanceConfig(t, url)
	cfg.Scenarios.Include = []string{ScenarioTitle}

	summary := runAcceptance(t, cfg)
	require.Len(t, summary.Results, 1)
	assert.True(t, summary.OK(), summary.Results[0].Error)
}

func TestAcceptance_FixtureWithoutConsent(t *testing.T) {
	opts := fixture.DefaultOptions()
	opts.Consent = false
	url := serveFixture(t, opts)

	cfg := acceptanceConfig(t, url)
	cfg.Onboarding.Consent = onboarding.ConsentOptional
	cfg.Waits.Explicit = 2 * time.Second
	cfg.Scenarios.Include = []string{ScenarioBoard}

	summary := runAcceptance(t, cfg)
	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	assert.True(t, res.Passed(), res.Error)

	var reached []types.State
	for _, tr := range res.Transitions {
		reached = append(reached, tr.To)
	}
	assert.NotContains(t, reached, types.StateConsentCleared)
}

func TestAcceptance_FailureEvidence(t *testing.T) {
	url := serveFixture(t, fixture.DefaultOptions())
	cfg := acceptanceConfig(t, url)
	cfg.Scenarios.Include = []string{ScenarioTitle}
	cfg.Oracle.ExpectedTitle = "Worlde"

	summary := runAcceptance(t, cfg)
	res := summary.Results[0]
	assert.Equal(t, KindAssertion, res.Kind)
	require.Len(t, res.Artifacts, 1)
	assert.FileExists(t, res.Artifacts[0])
}

// TestAcceptance_Live runs the suite against the published page.
func TestAcceptance_Live(t *testing.T) {
	if os.Getenv("WORDLEPROBE_LIVE") != "1" {
		t.Skip("set WORDLEPROBE_LIVE=1 to run against the published page")
	}
	cfg := acceptanceConfig(t, browser.DefaultTargetURL)
	cfg.Onboarding.Consent = onboarding.ConsentOptional

	summary := runAcceptance(t, cfg)
	for _, res := range summary.Results {
		assert.True(t, res.Passed(), "%s [%s]: %s", res.Name, res.Kind, res.Error)
	}
}
