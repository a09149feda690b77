package harness

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/wordleprobe/pkg/browser"
	"github.com/entrhq/wordleprobe/pkg/locator"
	"github.com/entrhq/wordleprobe/pkg/verify"
)

func TestClassify(t *testing.T) {
	setup := &browser.SetupError{Stage: "navigate", Err: context.DeadlineExceeded}
	notFound := &locator.NotFoundError{Target: "play button", Selectors: []string{"[data-testid='Play']"}}
	assertion := &verify.AssertionError{Check: "toast text", Expected: `"Not in word list"`, Actual: `""`}

	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, KindNone},
		{"setup", setup, KindEnvironment},
		{"wrapped setup", fmt.Errorf("open: %w", setup), KindEnvironment},
		{"navigation cancelled is still setup", &browser.SetupError{Stage: "navigate", Err: context.Canceled}, KindEnvironment},
		{"lookup", fmt.Errorf("onboard: entry step: %w", notFound), KindLookup},
		{"assertion", fmt.Errorf("verify board: %w", assertion), KindAssertion},
		{"teardown", &TeardownError{Err: errors.New("close page: gone")}, KindTeardown},
		{"cancelled", fmt.Errorf("submit buggg: %w", context.Canceled), KindCancelled},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestTeardownError(t *testing.T) {
	inner := errors.New("close browser: broken pipe")
	err := &TeardownError{Err: inner}

	assert.Equal(t, "teardown failed: close browser: broken pipe", err.Error())
	assert.ErrorIs(t, err, inner)
}
