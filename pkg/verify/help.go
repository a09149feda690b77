package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/wordleprobe/pkg/telemetry"
)

// DefaultHelpText is the copy the help dialog must contain. The signup
// sentence wraps across two text nodes on the page, so it is checked in two
// parts.
var DefaultHelpText = []string{
	"How To Play",
	"Guess the Wordle in 6 tries.",
	"Each guess must be a valid 5-letter word.",
	"The color of the tiles will change to show how close your guess was to the word.",
	"Examples",
	"W is in the word and in the correct spot.",
	"I is in the word but in the wrong spot.",
	"U is not in the word in any spot.",
	"Log in or create a free NYT account to link your stats.",
	"A new puzzle is released daily at midnight. If you haven’t already, you can sign up",
	"for our daily reminder email.",
}

// TextSource is anything whose rendered text can be read in one call.
type TextSource interface {
	InnerText() (string, error)
}

// VerifyHelpText reads the dialog text once and checks it contains every
// expected substring. Order and adjacency are not checked. All missing
// substrings are reported together.
func (e *Engine) VerifyHelpText(ctx context.Context, dialog TextSource, expected []string) error {
	_, span := telemetry.StartSpan(ctx, "verify.help_text")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	text, err := dialog.InnerText()
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("reading help dialog text: %w", err)
	}

	var missing []string
	for _, want := range expected {
		if !strings.Contains(text, want) {
			missing = append(missing, fmt.Sprintf("%q", want))
		}
	}
	if len(missing) == 0 {
		debugLog.Debugf("help dialog contains all %d expected strings", len(expected))
		return nil
	}

	err = &AssertionError{
		Check:    fmt.Sprintf("help dialog text (%d of %d strings missing)", len(missing), len(expected)),
		Expected: "to contain " + strings.Join(missing, ", "),
		Actual:   fmt.Sprintf("%q", text),
	}
	telemetry.RecordError(span, err)
	return err
}
