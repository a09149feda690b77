package harness

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel represents the logging verbosity level
type LogLevel int

const (
	// LogLevelQuiet shows only critical information (errors, warnings, final summary)
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal shows scenario progress (default)
	LogLevelNormal
	// LogLevelVerbose shows each step and state change
	LogLevelVerbose
	// LogLevelDebug shows all internal details for debugging
	LogLevelDebug
)

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	mintGreen   = lipgloss.Color("#A8E6CF")
	softCyan    = lipgloss.Color("#8BD3DD")
	amber       = lipgloss.Color("#F6C177")
	alertRed    = lipgloss.Color("#EF4444")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(brightWhite).Bold(true)
	sectionStyle = lipgloss.NewStyle().Foreground(softCyan)
	successStyle = lipgloss.NewStyle().Foreground(mintGreen).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(salmonPink)
	warningStyle = lipgloss.NewStyle().Foreground(amber)
	errorStyle   = lipgloss.NewStyle().Foreground(alertRed).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedGray)
)

// Logger prints run progress to the console
type Logger struct {
	level  LogLevel
	writer io.Writer

	startTime time.Time
	stepCount int
}

// NewLogger creates a new logger with the specified level writing to stdout
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(level, os.Stdout)
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		level:     level,
		writer:    w,
		startTime: time.Now(),
	}
}

// Header prints a prominent header message
func (l *Logger) Header(message string) {
	if l.level >= LogLevelNormal {
		rule := headerStyle.Render(strings.Repeat("=", 70))
		fmt.Fprintf(l.writer, "\n%s\n%s\n%s\n", rule, headerStyle.Render("  "+message), rule)
	}
}

// Section prints a section divider
func (l *Logger) Section(title string) {
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer)
		fmt.Fprintln(l.writer, sectionStyle.Render("▶ "+title))
		fmt.Fprintln(l.writer, mutedStyle.Render(strings.Repeat("─", 50)))
	}
}

// Step prints a numbered step
func (l *Logger) Step(message string) {
	if l.level >= LogLevelVerbose {
		l.stepCount++
		fmt.Fprintln(l.writer, sectionStyle.Render(fmt.Sprintf("  [%d] %s", l.stepCount, message)))
	}
}

// Successf prints a success message with checkmark
func (l *Logger) Successf(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
	}
}

// Infof prints an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer, infoStyle.Render(fmt.Sprintf(format, args...)))
	}
}

// Warningf prints a warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	if l.level >= LogLevelQuiet {
		fmt.Fprintln(l.writer, warningStyle.Render("⚠ Warning: "+fmt.Sprintf(format, args...)))
	}
}

// Errorf prints an error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level >= LogLevelQuiet {
		fmt.Fprintln(l.writer, errorStyle.Render("✗ Error: "+fmt.Sprintf(format, args...)))
	}
}

// Verbosef prints detailed information (only in verbose mode)
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l.level >= LogLevelVerbose {
		fmt.Fprintln(l.writer, mutedStyle.Render("  → "+fmt.Sprintf(format, args...)))
	}
}

// Debugf prints debug information (only in debug mode)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		fmt.Fprintln(l.writer, mutedStyle.Render("[DEBUG] "+fmt.Sprintf(format, args...)))
	}
}

// Result prints the one-line outcome of a scenario
func (l *Logger) Result(result *ScenarioResult) {
	switch result.Status {
	case statusPassed:
		l.Successf("%s (%s)", result.Name, result.Duration.Round(time.Millisecond))
	case statusSkipped:
		l.Warningf("%s skipped: %s", result.Name, result.Error)
	default:
		l.Errorf("%s [%s]: %s", result.Name, result.Kind, result.Error)
		if result.TeardownError != "" && result.Kind != KindTeardown {
			l.Warningf("%s teardown: %s", result.Name, result.TeardownError)
		}
	}
}

// Summary prints a final run summary
func (l *Logger) Summary(summary *RunSummary) {
	l.printSummaryHeader()
	l.printStatus(summary.Status)
	l.printTargetAndDuration(summary)
	l.printCounts(summary)
	l.printFailures(summary)
	l.printSummaryFooter()
}

func (l *Logger) printSummaryHeader() {
	rule := headerStyle.Render(strings.Repeat("=", 70))
	fmt.Fprintln(l.writer)
	fmt.Fprintln(l.writer, rule)
	fmt.Fprintln(l.writer, headerStyle.Render("  RUN SUMMARY"))
	fmt.Fprintln(l.writer, rule)
}

func (l *Logger) printStatus(status string) {
	fmt.Fprint(l.writer, "  Status: ")
	switch status {
	case statusSuccess:
		fmt.Fprintln(l.writer, successStyle.Render("✓ SUCCESS"))
	case statusCancelled:
		fmt.Fprintln(l.writer, warningStyle.Render("⚠ CANCELLED"))
	case statusFailed:
		fmt.Fprintln(l.writer, errorStyle.Render("✗ FAILED"))
	default:
		fmt.Fprintln(l.writer, status)
	}
}

func (l *Logger) printTargetAndDuration(summary *RunSummary) {
	fmt.Fprintf(l.writer, "  Target: %s\n", summary.TargetURL)
	fmt.Fprintf(l.writer, "  Duration: %s\n", summary.Duration.Round(time.Millisecond))
}

func (l *Logger) printCounts(summary *RunSummary) {
	fmt.Fprintf(l.writer, "\n  Scenarios: %d passed, %d failed, %d skipped\n",
		summary.Passed, summary.Failed, summary.Skipped)
}

func (l *Logger) printFailures(summary *RunSummary) {
	failed := summary.FailedResults()
	if len(failed) == 0 {
		return
	}

	fmt.Fprintln(l.writer)
	fmt.Fprintln(l.writer, errorStyle.Render("  Failures:"))
	for _, r := range failed {
		fmt.Fprintf(l.writer, "    ✗ %s [%s]\n", r.Name, r.Kind)
		if l.level >= LogLevelVerbose {
			fmt.Fprintln(l.writer, mutedStyle.Render("      "+r.Error))
		}
	}
}

func (l *Logger) printSummaryFooter() {
	fmt.Fprintln(l.writer, headerStyle.Render(strings.Repeat("=", 70)))
	fmt.Fprintln(l.writer)
}

// Newline adds a blank line (respects log level)
func (l *Logger) Newline() {
	if l.level >= LogLevelNormal {
		fmt.Fprintln(l.writer)
	}
}

// ParseLogLevel converts a string log level to LogLevel type
func ParseLogLevel(level string) LogLevel {
	switch level {
	case "quiet":
		return LogLevelQuiet
	case "normal":
		return LogLevelNormal
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}
