// Package backoff retries an operation while it fails with a retryable error,
// sleeping a fixed delay between attempts.
package backoff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrRetriesExhausted is returned when a bounded policy runs out of attempts.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy describes how to retry. MaxRetries of 0 means retry forever.
type Policy struct {
	Delay      time.Duration
	MaxRetries int
	Retryable  func(error) bool
	Sleep      Sleeper
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// policy gives up. The last retryable error is wrapped in ErrRetriesExhausted.
func (p Policy) Do(ctx context.Context, what string, op func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if p.MaxRetries > 0 && attempt > p.MaxRetries {
			return fmt.Errorf("%s: %w after %d attempts: %w", what, ErrRetriesExhausted, attempt, err)
		}

		slog.Warn("backing off", "op", what, "attempt", attempt, "delay", p.Delay, "error", err)
		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}
}
