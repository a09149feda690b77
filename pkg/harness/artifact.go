package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/types"
)

const (
	statusPassed  = "passed"
	statusFailed  = "failed"
	statusSkipped = "skipped"

	statusSuccess   = "success"
	statusCancelled = "cancelled"
)

// ScenarioResult is the outcome of one case
type ScenarioResult struct {
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Status        string             `json:"status"`
	Kind          FailureKind        `json:"kind,omitempty"`
	Error         string             `json:"error,omitempty"`
	TeardownError string             `json:"teardown_error,omitempty"`
	SessionID     string             `json:"session_id,omitempty"`
	FinalState    types.State        `json:"final_state"`
	Onboarded     bool               `json:"onboarded"`
	HelpDismissed bool               `json:"help_dismissed"`
	Transitions   []types.Transition `json:"transitions"`
	Events        []*types.CaseEvent `json:"events"`
	Artifacts     []string           `json:"artifacts,omitempty"`
	StartTime     time.Time          `json:"start_time"`
	EndTime       time.Time          `json:"end_time"`
	Duration      time.Duration      `json:"duration"`
}

// Passed reports whether the case passed.
func (r *ScenarioResult) Passed() bool {
	return r.Status == statusPassed
}

// RunSummary contains a complete summary of a harness run
type RunSummary struct {
	RunID     string            `json:"run_id"`
	TargetURL string            `json:"target_url"`
	Status    string            `json:"status"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Duration  time.Duration     `json:"duration"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Results   []*ScenarioResult `json:"results"`
}

// FailedResults returns the failed cases in run order.
func (s *RunSummary) FailedResults() []*ScenarioResult {
	return lo.Filter(s.Results, func(r *ScenarioResult, _ int) bool {
		return r.Status == statusFailed
	})
}

// FailuresByKind counts the failed cases per FailureKind.
func (s *RunSummary) FailuresByKind() map[FailureKind]int {
	groups := lo.GroupBy(s.FailedResults(), func(r *ScenarioResult) FailureKind {
		return r.Kind
	})
	return lo.MapValues(groups, func(rs []*ScenarioResult, _ FailureKind) int {
		return len(rs)
	})
}

// OK reports whether every scheduled case ran and passed.
func (s *RunSummary) OK() bool {
	return s.Status == statusSuccess
}

func (s *RunSummary) finish(cancelled bool) {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)

	count := func(status string) int {
		return lo.CountBy(s.Results, func(r *ScenarioResult) bool { return r.Status == status })
	}
	s.Passed = count(statusPassed)
	s.Failed = count(statusFailed)
	s.Skipped = count(statusSkipped)

	switch {
	case s.Failed > 0:
		s.Status = statusFailed
	case cancelled || s.Skipped > 0:
		s.Status = statusCancelled
	default:
		s.Status = statusSuccess
	}
}

// ArtifactWriter handles writing run artifacts
type ArtifactWriter struct {
	cfg ArtifactConfig
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(cfg ArtifactConfig) *ArtifactWriter {
	return &ArtifactWriter{cfg: cfg}
}

// WriteAll writes all configured artifact formats
func (w *ArtifactWriter) WriteAll(summary *RunSummary) error {
	if !w.cfg.Enabled {
		return nil
	}

	if err := os.MkdirAll(w.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.cfg.JSON {
		if err := w.WriteRunJSON(summary); err != nil {
			return fmt.Errorf("failed to write run JSON: %w", err)
		}
	}

	if w.cfg.Markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return fmt.Errorf("failed to write summary markdown: %w", err)
		}
	}

	return nil
}

// WriteRunJSON writes the full run summary as JSON
func (w *ArtifactWriter) WriteRunJSON(summary *RunSummary) error {
	path := filepath.Join(w.cfg.OutputDir, "run.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write run JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *RunSummary) error {
	path := filepath.Join(w.cfg.OutputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# wordleprobe Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Target:** %s\n\n", summary.TargetURL))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Millisecond)))

	md.WriteString("## Scenarios\n\n")
	md.WriteString("| scenario | status | kind | duration |\n|---|---|---|---|\n")
	for _, r := range summary.Results {
		icon := "✅"
		switch r.Status {
		case statusFailed:
			icon = "❌"
		case statusSkipped:
			icon = "⏭"
		}
		md.WriteString(fmt.Sprintf("| %s | %s %s | %s | %s |\n",
			r.Name, icon, r.Status, r.Kind, r.Duration.Round(time.Millisecond)))
	}
	md.WriteString("\n")

	failed := summary.FailedResults()
	if len(failed) > 0 {
		md.WriteString("## Failures\n\n")
		for _, r := range failed {
			md.WriteString(fmt.Sprintf("### %s\n\n", r.Name))
			md.WriteString(fmt.Sprintf("- **Kind:** %s\n", r.Kind))
			md.WriteString(fmt.Sprintf("- **Error:** %s\n", r.Error))
			md.WriteString(fmt.Sprintf("- **Final state:** %s\n", r.FinalState))
			md.WriteString(fmt.Sprintf("- **Onboarded:** %s, **help dialog dismissed:** %s\n",
				yesNo(r.Onboarded), yesNo(r.HelpDismissed)))
			if r.TeardownError != "" {
				md.WriteString(fmt.Sprintf("- **Teardown:** %s\n", r.TeardownError))
			}
			for _, a := range r.Artifacts {
				md.WriteString(fmt.Sprintf("- `%s`\n", a))
			}
			md.WriteString("\n")
		}

		kinds := summary.FailuresByKind()
		keys := lo.Keys(kinds)
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		md.WriteString("## Failures by kind\n\n")
		for _, k := range keys {
			md.WriteString(fmt.Sprintf("- **%s:** %d\n", k, kinds[k]))
		}
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

// WriteFailureEvidence captures the page of a failed case before its session
// is closed. It returns the paths written.
func (w *ArtifactWriter) WriteFailureEvidence(name string, page Page) ([]string, error) {
	if !w.cfg.Enabled || page == nil || (!w.cfg.DOM && !w.cfg.Screenshots) {
		return nil, nil
	}

	if err := os.MkdirAll(w.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	if w.cfg.DOM {
		snap, err := page.Snapshot(browser.DefaultSnapshotLength)
		if err != nil {
			return written, fmt.Errorf("failed to snapshot page: %w", err)
		}
		path, err := w.evidencePath(name, ".dom.html")
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(snap.HTML), 0600); err != nil {
			return written, fmt.Errorf("failed to write DOM snapshot: %w", err)
		}
		written = append(written, path)
	}

	if w.cfg.Screenshots {
		path, err := w.evidencePath(name, ".png")
		if err != nil {
			return written, err
		}
		if err := page.Screenshot(path); err != nil {
			return written, fmt.Errorf("failed to capture screenshot: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// evidencePath returns the file for a case's evidence, refusing names that
// resolve outside the output directory.
func (w *ArtifactWriter) evidencePath(name, ext string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("scenario name cannot be empty")
	}
	root, err := filepath.Abs(w.cfg.OutputDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	path := filepath.Clean(filepath.Join(root, name+ext))
	if !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("evidence for '%s' is outside the output directory", name)
	}
	return path, nil
}
