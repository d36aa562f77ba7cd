// Package retry provides the bounded retry-with-refresh loop shared by the
// availability scanner and the engine's cycle transition.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted reports that every attempt completed without success.
var ErrExhausted = errors.New("retry attempts exhausted")

// Config bounds one retry loop.
type Config struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Delay is the fixed pause between tries.
	Delay time.Duration
	// Refresh runs between tries, after the delay. Optional.
	Refresh func(ctx context.Context) error
}

// Do runs op until it reports done, the attempt budget runs out, or ctx is
// cancelled. op's error is recorded but does not stop the loop; the last one
// is wrapped into the returned ErrExhausted.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) (done bool, err error)) error {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		done, err := op(ctx)
		if done {
			return nil
		}
		lastErr = err

		if attempt == cfg.Attempts {
			break
		}
		if err := Sleep(ctx, cfg.Delay); err != nil {
			return err
		}
		if cfg.Refresh != nil {
			if err := cfg.Refresh(ctx); err != nil {
				lastErr = err
			}
		}
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrExhausted, lastErr)
	}
	return ErrExhausted
}

// Sleep blocks for d or until ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
