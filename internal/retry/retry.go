// Package retry provides a bounded retry policy for unreliable calls.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrExhausted marks a failure that survived every attempt.
var ErrExhausted = errors.New("retries exhausted")

// ExhaustedError carries the last failure after the final attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExhausted) hold for any *ExhaustedError.
func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Policy describes how many times to try and how long to wait between tries.
type Policy struct {
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration
	// Wait suspends for d; it must return early with ctx.Err() on cancellation.
	// Nil means a timer-based wait.
	Wait   func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
	Name   string
}

// Linear returns a backoff of attempt*step.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration { return time.Duration(attempt) * step }
}

// Default is three attempts with a 2s, 4s backoff.
func Default() Policy {
	return Policy{MaxAttempts: 3, Backoff: Linear(2 * time.Second)}
}

// Do runs op until it succeeds or p.MaxAttempts is reached.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	p = p.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				p.Logger.Info("retry.recovered", "op", p.Name, "attempt", attempt)
			}
			return out, nil
		}
		lastErr = err
		if attempt == p.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return zero, errors.Join(lastErr, ctx.Err())
		}

		delay := p.Backoff(attempt)
		p.Logger.Warn("retry.attempt_failed",
			"op", p.Name,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"retry_in_ms", delay.Milliseconds(),
			"error", err,
		)
		if werr := p.Wait(ctx, delay); werr != nil {
			return zero, errors.Join(lastErr, werr)
		}
	}

	p.Logger.Error("retry.exhausted", "op", p.Name, "attempts", p.MaxAttempts, "error", lastErr)
	return zero, &ExhaustedError{Attempts: p.MaxAttempts, Err: lastErr}
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Backoff == nil {
		p.Backoff = Linear(2 * time.Second)
	}
	if p.Wait == nil {
		p.Wait = sleep
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return p
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
