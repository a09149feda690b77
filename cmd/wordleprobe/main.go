// Package main provides the wordleprobe command, which runs the browser
// verification scenarios against the puzzle page and exits non-zero when any
// scenario fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/entrhq/wordleprobe/pkg/fixture"
	"github.com/entrhq/wordleprobe/pkg/harness"
	"github.com/entrhq/wordleprobe/pkg/telemetry"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	TargetURL   string
	Run         string
	Skip        string
	Headless    bool
	Verbosity   string
	OutputDir   string
	Fixture     string
	Timeout     time.Duration
	Telemetry   bool
	List        bool
	ShowVersion bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("wordleprobe v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	// The scenario in flight finishes; no further scenarios start
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nStopping after the current scenario...")
		cancel()
	}()

	ok, err := run(ctx, config)
	cancel()
	if err != nil {
		log.Printf("Run failed: %v", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	config := &CLIConfig{set: make(map[string]bool)}

	flag.StringVar(&config.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&config.TargetURL, "url", "", "Target page URL (overrides config)")
	flag.StringVar(&config.Run, "run", "", "Comma-separated glob patterns of scenarios to run")
	flag.StringVar(&config.Skip, "skip", "", "Comma-separated glob patterns of scenarios to skip")
	flag.BoolVar(&config.Headless, "headless", true, "Run the browser without a window")
	flag.StringVar(&config.Verbosity, "verbosity", "", "Logging verbosity: quiet, normal, verbose or debug")
	flag.StringVar(&config.OutputDir, "output", "", "Directory for run artifacts")
	flag.StringVar(&config.Fixture, "fixture", "", "Serve the replica page on this address (e.g. 127.0.0.1:0) and target it")
	flag.DurationVar(&config.Timeout, "timeout", 0, "Stop scheduling scenarios after this long (0 for no limit)")
	flag.BoolVar(&config.Telemetry, "telemetry", false, "Export trace spans (to telemetry.output, default stderr)")
	flag.BoolVar(&config.List, "list", false, "List the selected scenarios and exit")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wordleprobe - browser verification for the Wordle page\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wordleprobe [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run the default suite against the published page\n")
		fmt.Fprintf(os.Stderr, "  wordleprobe\n\n")
		fmt.Fprintf(os.Stderr, "  # Run against the local replica with a visible browser\n")
		fmt.Fprintf(os.Stderr, "  wordleprobe -fixture 127.0.0.1:0 -headless=false\n\n")
		fmt.Fprintf(os.Stderr, "  # Only the submission scenarios, including a disabled one\n")
		fmt.Fprintf(os.Stderr, "  wordleprobe -run '*-word-*,verify-title'\n\n")
	}

	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		config.set[f.Name] = true
	})
	return config
}

// run executes the selected scenarios and reports whether all passed
func run(ctx context.Context, cliConfig *CLIConfig) (bool, error) {
	cfg, err := loadConfig(cliConfig)
	if err != nil {
		return false, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cliConfig.Fixture != "" {
		srv, startErr := fixture.Start(cliConfig.Fixture, fixture.DefaultOptions())
		if startErr != nil {
			return false, fmt.Errorf("failed to start replica page: %w", startErr)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Close(shutdownCtx); err != nil {
				log.Printf("Replica shutdown: %v", err)
			}
		}()
		cfg.TargetURL = srv.URL()
	}

	runner, err := harness.NewRunner(cfg)
	if err != nil {
		return false, err
	}

	if cliConfig.List {
		for _, s := range runner.Scenarios() {
			marker := ""
			if s.Disabled {
				marker = " (disabled by default)"
			}
			fmt.Printf("%-24s %s%s\n", s.Name, s.Description, marker)
		}
		return true, nil
	}

	if cfg.Telemetry.Enabled {
		provider, closeOutput, telErr := setupTelemetry(cfg.Telemetry.Output)
		if telErr != nil {
			return false, telErr
		}
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				log.Printf("Telemetry shutdown: %v", err)
			}
			closeOutput()
		}()
	}

	if cliConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliConfig.Timeout)
		defer cancel()
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return false, err
	}
	return summary.OK(), nil
}

// loadConfig loads the run configuration and applies flag overrides
func loadConfig(cliConfig *CLIConfig) (*harness.Config, error) {
	cfg := harness.DefaultConfig()
	if cliConfig.ConfigFile != "" {
		loaded, err := harness.LoadConfig(cliConfig.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cliConfig.TargetURL != "" {
		cfg.TargetURL = cliConfig.TargetURL
	}
	if cliConfig.Run != "" {
		cfg.Scenarios.Include = splitPatterns(cliConfig.Run)
	}
	if cliConfig.Skip != "" {
		cfg.Scenarios.Exclude = append(cfg.Scenarios.Exclude, splitPatterns(cliConfig.Skip)...)
	}
	if cliConfig.set["headless"] {
		cfg.Browser.Headless = cliConfig.Headless
	}
	if cliConfig.Verbosity != "" {
		cfg.Logging.Verbosity = cliConfig.Verbosity
	}
	if cliConfig.OutputDir != "" {
		cfg.Artifacts.Enabled = true
		cfg.Artifacts.OutputDir = cliConfig.OutputDir
	}
	if cliConfig.Telemetry {
		cfg.Telemetry.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// setupTelemetry installs span export to stdout, stderr or a file
func setupTelemetry(output string) (*telemetry.Provider, func(), error) {
	var w io.Writer
	closeOutput := func() {}

	switch output {
	case "stdout":
		w = os.Stdout
	case "stderr", "":
		w = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open telemetry output: %w", err)
		}
		w = f
		closeOutput = func() { _ = f.Close() }
	}

	provider, err := telemetry.Setup("wordleprobe", version, w)
	if err != nil {
		closeOutput()
		return nil, nil, err
	}
	return provider, closeOutput, nil
}
