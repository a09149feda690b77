package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/wordleprobe/pkg/telemetry"
)

// Launcher provisions the Playwright driver and opens sessions.
type Launcher struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	initialized bool
	install     bool
	runOptions  *playwright.RunOptions
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithoutInstall skips downloading the driver and browsers, for environments
// where they are provisioned ahead of time.
func WithoutInstall() LauncherOption {
	return func(l *Launcher) {
		l.install = false
	}
}

// WithDriverOutput sends driver installation output to w.
func WithDriverOutput(w io.Writer) LauncherOption {
	return func(l *Launcher) {
		l.runOptions.Stdout = w
		l.runOptions.Stderr = w
		l.runOptions.Verbose = true
	}
}

// NewLauncher creates a launcher that installs Chromium on Initialize.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{
		install: true,
		runOptions: &playwright.RunOptions{
			Browsers: []string{"chromium"},
			Verbose:  false,
			Stdout:   io.Discard,
			Stderr:   io.Discard,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Initialize installs (unless disabled) and starts the Playwright driver.
// It must be called before Open and is a no-op once successful.
func (l *Launcher) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}

	if l.install {
		if err := playwright.Install(l.runOptions); err != nil {
			return newSetupError("install", fmt.Errorf("failed to install playwright: %w", err))
		}
	}

	pw, err := playwright.Run(l.runOptions)
	if err != nil {
		return newSetupError("install", fmt.Errorf("failed to start playwright: %w", err))
	}

	l.playwright = pw
	l.initialized = true
	debugLog.Infof("playwright driver started")
	return nil
}

// Open launches a browser with the given options, navigates to the target
// URL and returns the live session. On failure every resource acquired so far
// is released and a *SetupError is returned.
func (l *Launcher) Open(ctx context.Context, opts LaunchOptions) (*Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "browser.open")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, newSetupError("launch", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, newSetupError("options", err)
	}

	l.mu.Lock()
	pw, ready := l.playwright, l.initialized
	l.mu.Unlock()
	if !ready {
		return nil, newSetupError("launch", ErrNotInitialized)
	}

	session := &Session{
		ID:           uuid.NewString(),
		TargetURL:    opts.TargetURL,
		Headless:     opts.Headless,
		ImplicitWait: opts.ImplicitWait,
		CreatedAt:    time.Now(),
	}

	if err := l.launch(pw, session, opts); err != nil {
		telemetry.RecordError(span, err)
		if closeErr := session.close(); closeErr != nil {
			debugLog.Warnf("cleanup after failed launch: %v", closeErr)
		}
		return nil, err
	}

	if opts.ImplicitWait > 0 {
		session.Page.SetDefaultTimeout(float64(opts.ImplicitWait.Milliseconds()))
	}

	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}
	if opts.NavigateWait > 0 {
		gotoOpts.Timeout = playwright.Float(float64(opts.NavigateWait.Milliseconds()))
	}
	if _, err := session.Page.Goto(opts.TargetURL, gotoOpts); err != nil {
		telemetry.RecordError(span, err)
		if closeErr := session.close(); closeErr != nil {
			debugLog.Warnf("cleanup after failed navigation: %v", closeErr)
		}
		return nil, newSetupError("navigate", fmt.Errorf("navigation to %s failed: %w", opts.TargetURL, err))
	}

	debugLog.Infof("session %s opened at %s (headless=%t)", session.ID, opts.TargetURL, opts.Headless)
	return session, nil
}

func (l *Launcher) launch(pw *playwright.Playwright, session *Session, opts LaunchOptions) error {
	var sandbox *bool
	if opts.NoSandbox {
		sandbox = playwright.Bool(false)
	}

	var viewport *playwright.Size
	var noViewport *bool
	if opts.Maximized {
		noViewport = playwright.Bool(true)
	} else {
		viewport = &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight}
	}

	if opts.Incognito {
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless:        playwright.Bool(opts.Headless),
			ChromiumSandbox: sandbox,
			Args:            opts.Args(),
		})
		if err != nil {
			return newSetupError("launch", fmt.Errorf("failed to launch browser: %w", err))
		}
		session.Browser = browser
		session.addCloser("browser", func() error { return browser.Close() })

		bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
			NoViewport: noViewport,
			Viewport:   viewport,
		})
		if err != nil {
			return newSetupError("context", fmt.Errorf("failed to create context: %w", err))
		}
		session.Context = bctx
		session.addCloser("context", func() error { return bctx.Close() })
	} else {
		bctx, err := pw.Chromium.LaunchPersistentContext(opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless:        playwright.Bool(opts.Headless),
			ChromiumSandbox: sandbox,
			Args:            opts.Args(),
			NoViewport:      noViewport,
			Viewport:        viewport,
		})
		if err != nil {
			return newSetupError("launch", fmt.Errorf("failed to launch persistent context: %w", err))
		}
		session.Context = bctx
		session.addCloser("context", func() error { return bctx.Close() })
	}

	page, err := session.Context.NewPage()
	if err != nil {
		return newSetupError("page", fmt.Errorf("failed to create page: %w", err))
	}
	session.Page = page
	session.addCloser("page", func() error { return page.Close() })
	return nil
}

// Close releases the session. It is safe to call with a nil session and more
// than once; only the first call does any work. Every resource is closed even
// if an earlier one fails, and the combined error is returned.
func (l *Launcher) Close(session *Session) error {
	if session == nil {
		return nil
	}
	err := session.close()
	if err != nil {
		debugLog.Errorf("session %s closed with errors: %v", session.ID, err)
	} else {
		debugLog.Infof("session %s closed", session.ID)
	}
	return err
}

// Shutdown stops the Playwright driver.
func (l *Launcher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized || l.playwright == nil {
		return nil
	}
	if err := l.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	l.initialized = false
	l.playwright = nil
	return nil
}

// closeAll runs closers in reverse order of acquisition.
func closeAll(closers []namedCloser) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}
