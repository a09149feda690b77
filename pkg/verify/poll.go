package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var errConditionPending = errors.New("condition not met")

// errWaitElapsed is returned by waitUntil when bound elapses first.
var errWaitElapsed = errors.New("wait elapsed")

// waitUntil calls check every interval until it reports true or bound
// elapses. Read errors are treated as transient; the last one is reported
// if the wait runs out. Cancelling ctx stops the wait with ctx's error.
func waitUntil(ctx context.Context, bound, interval time.Duration, check func() (bool, error)) error {
	waitCtx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	var lastErr error
	op := func() error {
		done, err := check()
		if err != nil {
			lastErr = err
			return err
		}
		if !done {
			return errConditionPending
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), waitCtx))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if lastErr != nil {
		return fmt.Errorf("%w after %s: %w", errWaitElapsed, bound, lastErr)
	}
	return fmt.Errorf("%w after %s", errWaitElapsed, bound)
}

// holdFor calls check every interval for the whole window and fails on the
// first error it returns. check always runs at least twice: at the start
// and once the window has closed.
func holdFor(ctx context.Context, window, interval time.Duration, check func() error) error {
	holdCtx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	ticker := backoff.NewTicker(backoff.WithContext(backoff.NewConstantBackOff(interval), holdCtx))
	defer ticker.Stop()

	for range ticker.C {
		if err := check(); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return check()
}
