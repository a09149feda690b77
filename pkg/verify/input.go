package verify

import (
	"context"
	"fmt"

	"github.com/entrhq/wordleprobe/pkg/locator"
)

// TypeWord clicks the on-screen key of each letter of word, in order. The
// word is not validated; accepting or rejecting it is the page's job.
func (e *Engine) TypeWord(ctx context.Context, scope locator.Scope, word string) error {
	position := 0
	for _, letter := range word {
		if err := ctx.Err(); err != nil {
			return err
		}
		key, err := e.finder.One(scope, e.catalog.LetterKey(letter))
		if err != nil {
			return fmt.Errorf("typing %q at position %d: %w", word, position, err)
		}
		position++
		if err := key.Click(e.finder.ImplicitWait()); err != nil {
			return fmt.Errorf("typing %q: clicking key %q: %w", word, string(letter), err)
		}
	}
	debugLog.Debugf("typed %q", word)
	return nil
}

// Submit clicks the on-screen enter key.
func (e *Engine) Submit(ctx context.Context, scope locator.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enter, err := e.finder.One(scope, e.catalog.Enter)
	if err != nil {
		return fmt.Errorf("submitting: %w", err)
	}
	if err := enter.Click(e.finder.ImplicitWait()); err != nil {
		return fmt.Errorf("submitting: clicking %s: %w", e.catalog.Enter.Name, err)
	}
	return nil
}
