package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/telemetry"
)

// Outcome is the page's expected verdict on a submitted word.
type Outcome string

const (
	// OutcomeRejected means the page refuses the word: the row takes an
	// extra class and the rejection toast is shown.
	OutcomeRejected Outcome = "rejected"
	// OutcomeAccepted means the page takes the word: the row class is left
	// alone and no toast text appears.
	OutcomeAccepted Outcome = "accepted"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomeRejected || o == OutcomeAccepted
}

// SubmissionReport records both sides of the submission contract.
type SubmissionReport struct {
	Row          int           `json:"row"`
	Word         string        `json:"word"`
	Expected     Outcome       `json:"expected"`
	ClassBefore  string        `json:"class_before"`
	ClassAfter   string        `json:"class_after"`
	ClassChanged bool          `json:"class_changed"`
	ToastText    string        `json:"toast_text"`
	Elapsed      time.Duration `json:"elapsed"`
}

// SubmitAndVerify types word into the given row, submits it and checks that
// the row fingerprint and the toast agree with expect.
//
// For a rejected word the row class must change and the toast must read the
// rejection message, each within the explicit wait. For an accepted word the
// row class and an empty toast must hold for the whole settle window. A
// missing toast container reads as empty.
func (e *Engine) SubmitAndVerify(ctx context.Context, scope locator.Scope, row int, word string, expect Outcome) (*SubmissionReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "verify.submit",
		telemetry.AttrRow.Int(row),
		telemetry.AttrWord.String(word),
		telemetry.AttrOutcome.String(string(expect)))
	defer span.End()

	report, err := e.submitAndVerify(ctx, scope, row, word, expect)
	telemetry.RecordError(span, err)
	return report, err
}

func (e *Engine) submitAndVerify(ctx context.Context, scope locator.Scope, row int, word string, expect Outcome) (*SubmissionReport, error) {
	if !expect.Valid() {
		return nil, fmt.Errorf("unknown outcome %q", expect)
	}

	target := e.catalog.Row(row)
	rowElem, err := e.finder.One(scope, target)
	if err != nil {
		return nil, err
	}
	before, err := rowElem.Attribute("class")
	if err != nil {
		return nil, fmt.Errorf("reading %s class: %w", target.Name, err)
	}

	report := &SubmissionReport{
		Row:         row,
		Word:        word,
		Expected:    expect,
		ClassBefore: before,
		ClassAfter:  before,
	}

	if err := e.TypeWord(ctx, scope, word); err != nil {
		return report, err
	}
	if err := e.Submit(ctx, scope); err != nil {
		return report, err
	}
	start := time.Now()
	defer func() { report.Elapsed = time.Since(start) }()

	if expect == OutcomeRejected {
		return report, e.expectRejected(ctx, scope, rowElem, target.Name, report)
	}
	return report, e.expectAccepted(ctx, scope, rowElem, target.Name, report)
}

func (e *Engine) expectRejected(ctx context.Context, scope locator.Scope, rowElem locator.Element, rowName string, report *SubmissionReport) error {
	err := waitUntil(ctx, e.waits.Explicit, e.waits.Poll, func() (bool, error) {
		class, err := rowElem.Attribute("class")
		if err != nil {
			return false, err
		}
		report.ClassAfter = class
		report.ClassChanged = class != report.ClassBefore
		return report.ClassChanged, nil
	})
	if err != nil {
		if !errors.Is(err, errWaitElapsed) {
			return err
		}
		return &AssertionError{
			Check:    rowName + " class fingerprint",
			Expected: fmt.Sprintf("to differ from %q within %s", report.ClassBefore, e.waits.Explicit),
			Actual:   fmt.Sprintf("%q", report.ClassAfter),
		}
	}
	debugLog.Debugf("%s class changed %q -> %q", rowName, report.ClassBefore, report.ClassAfter)

	err = waitUntil(ctx, e.waits.Explicit, e.waits.Poll, func() (bool, error) {
		text, err := e.toastText(scope)
		if err != nil {
			return false, err
		}
		report.ToastText = text
		return text == e.rejection, nil
	})
	if err != nil {
		if !errors.Is(err, errWaitElapsed) {
			return err
		}
		return &AssertionError{
			Check:    "toast text",
			Expected: fmt.Sprintf("%q within %s", e.rejection, e.waits.Explicit),
			Actual:   fmt.Sprintf("%q", report.ToastText),
		}
	}
	return nil
}

func (e *Engine) expectAccepted(ctx context.Context, scope locator.Scope, rowElem locator.Element, rowName string, report *SubmissionReport) error {
	return holdFor(ctx, e.waits.Settle, e.waits.Poll, func() error {
		class, err := rowElem.Attribute("class")
		if err != nil {
			return fmt.Errorf("reading %s class: %w", rowName, err)
		}
		report.ClassAfter = class
		if class != report.ClassBefore {
			report.ClassChanged = true
			return &AssertionError{
				Check:    rowName + " class fingerprint",
				Expected: fmt.Sprintf("%q unchanged", report.ClassBefore),
				Actual:   fmt.Sprintf("%q", class),
			}
		}

		text, err := e.toastText(scope)
		if err != nil {
			return err
		}
		report.ToastText = text
		if text != "" {
			return &AssertionError{
				Check:    "toast text",
				Expected: `""`,
				Actual:   fmt.Sprintf("%q", text),
			}
		}
		return nil
	})
}

// toastText reads the toast container without waiting for it.
func (e *Engine) toastText(scope locator.Scope) (string, error) {
	toasts, err := e.finder.Present(scope, e.catalog.Toast)
	if err != nil {
		return "", err
	}
	if len(toasts) == 0 {
		return "", nil
	}
	text, err := toasts[0].InnerText()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", e.catalog.Toast.Name, err)
	}
	return strings.TrimSpace(text), nil
}
