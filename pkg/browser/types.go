package browser

import (
	"fmt"
	"time"
)

// DefaultTargetURL is the published puzzle page.
const DefaultTargetURL = "https://www.nytimes.com/games/wordle/index.html"

// Default values for launching sessions
const (
	DefaultImplicitWait   = 20 * time.Second
	DefaultNavigateWait   = 30 * time.Second
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// LaunchOptions configures a new browser session.
type LaunchOptions struct {
	// TargetURL is navigated to once the page is created
	TargetURL string `yaml:"target_url" json:"target_url"`

	// Headless controls whether the browser runs without a visible window
	Headless bool `yaml:"headless" json:"headless"`

	// NoSandbox disables the Chromium sandbox
	NoSandbox bool `yaml:"no_sandbox" json:"no_sandbox"`

	// DisableDevShm stops Chromium from using /dev/shm
	DisableDevShm bool `yaml:"disable_dev_shm" json:"disable_dev_shm"`

	// Incognito runs in a fresh, non-persistent context. When false a
	// persistent profile is launched from ProfileDir.
	Incognito  bool   `yaml:"incognito" json:"incognito"`
	ProfileDir string `yaml:"profile_dir,omitempty" json:"profile_dir,omitempty"`

	// Maximized lets the window size drive the viewport instead of a fixed size
	Maximized bool `yaml:"maximized" json:"maximized"`

	// ViewportWidth and ViewportHeight are used when Maximized is false
	ViewportWidth  int `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height" json:"viewport_height"`

	// ImplicitWait bounds every element lookup and action on the page
	ImplicitWait time.Duration `yaml:"implicit_wait" json:"implicit_wait"`

	// NavigateWait bounds the initial navigation
	NavigateWait time.Duration `yaml:"navigate_wait" json:"navigate_wait"`
}

// DefaultLaunchOptions returns the fixed capability set.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		TargetURL:      DefaultTargetURL,
		Headless:       true,
		NoSandbox:      true,
		DisableDevShm:  true,
		Incognito:      true,
		Maximized:      true,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		ImplicitWait:   DefaultImplicitWait,
		NavigateWait:   DefaultNavigateWait,
	}
}

// Args returns the Chromium command line switches for the options.
func (o LaunchOptions) Args() []string {
	var args []string
	if o.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	if o.DisableDevShm {
		args = append(args, "--disable-dev-shm-usage")
	}
	if o.Maximized {
		args = append(args, "--start-maximized")
	}
	return args
}

// Validate checks the options before launch.
func (o LaunchOptions) Validate() error {
	if o.TargetURL == "" {
		return fmt.Errorf("target URL is required")
	}
	if o.ImplicitWait < 0 {
		return fmt.Errorf("implicit wait cannot be negative")
	}
	if o.NavigateWait < 0 {
		return fmt.Errorf("navigate wait cannot be negative")
	}
	if !o.Incognito && o.ProfileDir == "" {
		return fmt.Errorf("profile_dir is required when incognito is disabled")
	}
	if !o.Maximized && (o.ViewportWidth <= 0 || o.ViewportHeight <= 0) {
		return fmt.Errorf("viewport must be positive when not maximized, got %dx%d", o.ViewportWidth, o.ViewportHeight)
	}
	return nil
}
