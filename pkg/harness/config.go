package harness

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/onboarding"
	"github.com/entrhq/wordleprobe/pkg/verify"
)

// Config represents the configuration for one harness run
type Config struct {
	// TargetURL is the puzzle page every case navigates to
	TargetURL string `yaml:"target_url" json:"target_url"`

	// Browser launch capabilities. Browser.TargetURL and Browser.ImplicitWait
	// are taken from TargetURL and Waits.Implicit.
	Browser browser.LaunchOptions `yaml:"browser" json:"browser"`

	// Wait bounds for lookups, animations and settle windows
	Waits verify.Waits `yaml:"waits" json:"waits"`

	// Onboarding controls the consent and help dialog steps. Its waits are
	// bounded by Waits.Explicit.
	Onboarding onboarding.Options `yaml:"onboarding" json:"onboarding"`

	// Oracle holds the expected page content
	Oracle OracleConfig `yaml:"oracle" json:"oracle"`

	// Locators overrides the element contract of the page
	Locators *locator.Catalog `yaml:"locators" json:"locators"`

	// Scenario selection
	Scenarios ScenarioConfig `yaml:"scenarios" json:"scenarios"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Telemetry configuration
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
}

// OracleConfig is what the page is expected to show.
type OracleConfig struct {
	HelpText         []string `yaml:"help_text" json:"help_text"`
	RejectionMessage string   `yaml:"rejection_message" json:"rejection_message"`
	Rows             int      `yaml:"rows" json:"rows"`
	Columns          int      `yaml:"columns" json:"columns"`

	// InvalidWord must be rejected by the page, ValidWord accepted
	InvalidWord string `yaml:"invalid_word" json:"invalid_word"`
	ValidWord   string `yaml:"valid_word" json:"valid_word"`

	ExpectedTitle string `yaml:"expected_title" json:"expected_title"`
}

// ScenarioConfig selects scenarios by name using glob patterns.
// Disabled scenarios only run when an include pattern names them.
type ScenarioConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Individual format flags
	JSON     bool `yaml:"json" json:"json"`
	Markdown bool `yaml:"markdown" json:"markdown"`

	// DOM writes a cleaned snapshot of the page for each failed case
	DOM bool `yaml:"dom" json:"dom"`
	// Screenshots writes a full-page screenshot for each failed case
	Screenshots bool `yaml:"screenshots" json:"screenshots"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// TelemetryConfig controls span export.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Output is "stdout", "stderr" or a file path
	Output string `yaml:"output" json:"output"`
}

// LaunchOptions returns the browser options with the run-wide target and
// implicit wait applied.
func (c *Config) LaunchOptions() browser.LaunchOptions {
	opts := c.Browser
	opts.TargetURL = c.TargetURL
	opts.ImplicitWait = c.Waits.Implicit
	return opts
}

// OnboardingOptions returns the onboarding options bounded by the run-wide
// explicit wait.
func (c *Config) OnboardingOptions() onboarding.Options {
	opts := c.Onboarding
	opts.ExplicitWait = c.Waits.Explicit
	return opts
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target_url is required")
	}

	if err := c.LaunchOptions().Validate(); err != nil {
		return fmt.Errorf("invalid browser config: %w", err)
	}

	if err := c.Waits.Validate(); err != nil {
		return fmt.Errorf("invalid waits: %w", err)
	}

	if err := c.OnboardingOptions().Validate(); err != nil {
		return fmt.Errorf("invalid onboarding config: %w", err)
	}

	if err := c.Oracle.Validate(); err != nil {
		return fmt.Errorf("invalid oracle: %w", err)
	}

	if c.Locators == nil {
		c.Locators = locator.DefaultCatalog()
	}
	if err := c.Locators.Validate(); err != nil {
		return fmt.Errorf("invalid locators: %w", err)
	}

	if _, err := NewScenarioFilter(c.Scenarios.Include, c.Scenarios.Exclude); err != nil {
		return err
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts.output_dir is required when artifacts are enabled")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	// Validate log level
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	if c.Telemetry.Enabled && c.Telemetry.Output == "" {
		c.Telemetry.Output = "stderr"
	}

	return nil
}

// Validate checks the oracle against the board geometry it describes.
func (o OracleConfig) Validate() error {
	if o.Rows <= 0 || o.Columns <= 0 {
		return fmt.Errorf("board geometry must be positive, got %dx%d", o.Rows, o.Columns)
	}
	if len(o.HelpText) == 0 {
		return fmt.Errorf("help_text must list at least one string")
	}
	if o.RejectionMessage == "" {
		return fmt.Errorf("rejection_message is required")
	}
	if err := checkWord(o.InvalidWord, o.Columns); err != nil {
		return fmt.Errorf("invalid_word: %w", err)
	}
	if err := checkWord(o.ValidWord, o.Columns); err != nil {
		return fmt.Errorf("valid_word: %w", err)
	}
	return nil
}

func checkWord(word string, columns int) error {
	if len(word) != columns {
		return fmt.Errorf("%q must have %d letters", word, columns)
	}
	if strings.Trim(word, "abcdefghijklmnopqrstuvwxyz") != "" {
		return fmt.Errorf("%q must be lowercase a-z", word)
	}
	return nil
}

// DefaultConfig returns the configuration for the published puzzle page
func DefaultConfig() *Config {
	return &Config{
		TargetURL:  browser.DefaultTargetURL,
		Browser:    browser.DefaultLaunchOptions(),
		Waits:      verify.DefaultWaits(),
		Onboarding: onboarding.DefaultOptions(),
		Oracle: OracleConfig{
			HelpText:         append([]string(nil), verify.DefaultHelpText...),
			RejectionMessage: verify.DefaultRejectionMessage,
			Rows:             verify.DefaultRows,
			Columns:          verify.DefaultColumns,
			InvalidWord:      "buggg",
			ValidWord:        "happy",
			ExpectedTitle:    "Wordle — The New York Times",
		},
		Locators: locator.DefaultCatalog(),
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".wordleprobe/artifacts",
			JSON:      true,
			Markdown:  true,
			DOM:       true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
