package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/onboarding"
	"github.com/entrhq/wordleprobe/pkg/telemetry"
	"github.com/entrhq/wordleprobe/pkg/types"
	"github.com/entrhq/wordleprobe/pkg/verify"
)

// Backend opens and releases the page of each case.
type Backend interface {
	Initialize() error
	Open(ctx context.Context, opts browser.LaunchOptions) (Page, error)
	Close(page Page) error
	Shutdown() error
}

// browserBackend drives a real browser through a Launcher.
type browserBackend struct {
	launcher *browser.Launcher
}

// NewBrowserBackend returns a Backend that opens one browser session per case.
func NewBrowserBackend(launcher *browser.Launcher) Backend {
	return &browserBackend{launcher: launcher}
}

func (b *browserBackend) Initialize() error {
	return b.launcher.Initialize()
}

func (b *browserBackend) Open(ctx context.Context, opts browser.LaunchOptions) (Page, error) {
	session, err := b.launcher.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (b *browserBackend) Close(page Page) error {
	session, ok := page.(*browser.Session)
	if !ok {
		return fmt.Errorf("page %T was not opened by this backend", page)
	}
	return b.launcher.Close(session)
}

func (b *browserBackend) Shutdown() error {
	return b.launcher.Shutdown()
}

// Runner executes scenarios one at a time, each in its own session.
type Runner struct {
	cfg       *Config
	backend   Backend
	log       *Logger
	artifacts *ArtifactWriter
	sequencer *onboarding.Sequencer
	engine    *verify.Engine
	scenarios []Scenario
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBackend replaces the browser backend.
func WithBackend(b Backend) RunnerOption {
	return func(r *Runner) {
		r.backend = b
	}
}

// WithLogger replaces the console logger.
func WithLogger(l *Logger) RunnerOption {
	return func(r *Runner) {
		r.log = l
	}
}

// WithScenarios replaces the default suite. The scenario filter still applies.
func WithScenarios(scenarios []Scenario) RunnerOption {
	return func(r *Runner) {
		r.scenarios = scenarios
	}
}

// NewRunner validates cfg and wires the components of a run.
func NewRunner(cfg *Config, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	finder := locator.NewFinder(cfg.Waits.Implicit)
	r := &Runner{
		cfg:       cfg,
		artifacts: NewArtifactWriter(cfg.Artifacts),
		sequencer: onboarding.NewSequencer(cfg.Locators, finder, cfg.OnboardingOptions()),
		engine: verify.NewEngine(cfg.Locators, finder, cfg.Waits,
			verify.WithRejectionMessage(cfg.Oracle.RejectionMessage)),
		scenarios: DefaultScenarios(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.backend == nil {
		r.backend = NewBrowserBackend(browser.NewLauncher())
	}
	if r.log == nil {
		r.log = NewLogger(ParseLogLevel(cfg.Logging.Verbosity))
	}

	filter, err := NewScenarioFilter(cfg.Scenarios.Include, cfg.Scenarios.Exclude)
	if err != nil {
		return nil, err
	}
	r.scenarios = filter.Apply(r.scenarios)
	return r, nil
}

// Scenarios returns the selected scenarios in run order.
func (r *Runner) Scenarios() []Scenario {
	return r.scenarios
}

// Run executes every selected scenario and writes the run artifacts.
//
// Cancelling ctx stops new scenarios from starting; a scenario already
// running finishes, and its session is always closed.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "harness.run", telemetry.AttrTarget.String(r.cfg.TargetURL))
	defer span.End()

	summary := &RunSummary{
		RunID:     debugLog.RunID(),
		TargetURL: r.cfg.TargetURL,
		StartTime: time.Now(),
	}

	r.log.Header("wordleprobe")
	r.log.Infof("Target: %s", r.cfg.TargetURL)
	r.log.Verbosef("Scenarios: %d selected", len(r.scenarios))
	r.log.Debugf("Run log: %s", debugLog.LogPath())

	if len(r.scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios selected")
	}

	if err := r.backend.Initialize(); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := r.backend.Shutdown(); err != nil {
			r.log.Warningf("browser shutdown: %v", err)
		}
	}()

	cancelled := false
	for _, s := range r.scenarios {
		if ctx.Err() != nil {
			cancelled = true
			summary.Results = append(summary.Results, &ScenarioResult{
				Name:        s.Name,
				Description: s.Description,
				Status:      statusSkipped,
				Kind:        KindCancelled,
				Error:       "run cancelled before the scenario started",
				FinalState:  types.StateUnloaded,
			})
			continue
		}

		result := r.RunScenario(context.WithoutCancel(ctx), s)
		summary.Results = append(summary.Results, result)
		r.log.Result(result)
	}

	summary.finish(cancelled)
	r.log.Summary(summary)

	if err := r.artifacts.WriteAll(summary); err != nil {
		r.log.Warningf("artifacts: %v", err)
	} else if r.cfg.Artifacts.Enabled {
		r.log.Verbosef("Artifacts written to %s", r.cfg.Artifacts.OutputDir)
	}

	if !summary.OK() {
		telemetry.RecordError(span, fmt.Errorf("run %s", summary.Status))
	}
	return summary, nil
}

// RunScenario runs one case from setup to teardown.
func (r *Runner) RunScenario(ctx context.Context, s Scenario) *ScenarioResult {
	ctx, span := telemetry.StartSpan(ctx, "harness.scenario", telemetry.AttrScenario.String(s.Name))
	defer span.End()

	r.log.Section(s.Name)
	debugLog.Printf("[%s] start", s.Name)

	result := &ScenarioResult{
		Name:        s.Name,
		Description: s.Description,
		StartTime:   time.Now(),
	}
	c := newCase(s.Name, r.cfg.Oracle, r.sequencer, r.engine, r.log)
	c.record(types.NewCaseEvent(types.EventTypeCaseStart, s.Description))

	err := r.runCase(ctx, c, s, result)
	if advErr := c.Advance(types.StateClosed); advErr != nil {
		debugLog.Warnf("[%s] %v", s.Name, advErr)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.FinalState = c.Tracker.Current()
	result.Onboarded = c.Tracker.Reached(types.StateHelpVisible)
	result.HelpDismissed = c.Help != nil && c.Help.Dismissed()
	result.Transitions = c.Tracker.History()

	if err != nil {
		telemetry.RecordError(span, err)
		result.Status = statusFailed
		result.Kind = Classify(err)
		result.Error = err.Error()
		debugLog.Errorf("[%s] %s failure: %v", s.Name, result.Kind, err)
	} else {
		result.Status = statusPassed
		debugLog.Printf("[%s] passed in %s", s.Name, result.Duration)
	}

	c.record(types.NewCaseEvent(types.EventTypeCaseEnd, result.Status))
	result.Events = c.Events()
	return result
}

// runCase opens the session, onboards and runs the scenario. The session is
// closed on every path once opened; a close failure is returned only when
// nothing failed before it.
func (r *Runner) runCase(ctx context.Context, c *Case, s Scenario, result *ScenarioResult) (err error) {
	page, err := r.backend.Open(ctx, r.cfg.LaunchOptions())
	if err != nil {
		return err
	}
	c.Page = page
	if session, ok := page.(*browser.Session); ok {
		result.SessionID = session.ID
	}
	c.record(types.NewCaseEvent(types.EventTypeSessionOpened, page.URL()))

	defer func() {
		if err != nil {
			paths, evErr := r.artifacts.WriteFailureEvidence(s.Name, page)
			result.Artifacts = paths
			if evErr != nil {
				r.log.Warningf("%s evidence: %v", s.Name, evErr)
			}
		}

		closeErr := r.backend.Close(page)
		if closeErr == nil {
			c.record(types.NewCaseEvent(types.EventTypeSessionClosed, ""))
			return
		}
		c.record(types.NewCaseEvent(types.EventTypeTeardownFailed, closeErr.Error()))
		result.TeardownError = closeErr.Error()
		if err == nil {
			err = &TeardownError{Err: closeErr}
		}
	}()

	if err = c.Advance(types.StateLoaded); err != nil {
		return err
	}
	if err = c.Onboard(ctx); err != nil {
		return err
	}
	return s.Run(ctx, c)
}
