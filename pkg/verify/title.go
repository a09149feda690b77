package verify

import (
	"context"
	"fmt"
)

// Titled is anything that reports a document title.
type Titled interface {
	Title() (string, error)
}

// VerifyTitle checks the page title equals expected exactly.
func (e *Engine) VerifyTitle(ctx context.Context, page Titled, expected string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	title, err := page.Title()
	if err != nil {
		return fmt.Errorf("reading page title: %w", err)
	}
	if title != expected {
		return &AssertionError{
			Check:    "page title",
			Expected: fmt.Sprintf("%q", expected),
			Actual:   fmt.Sprintf("%q", title),
		}
	}
	return nil
}
