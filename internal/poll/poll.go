// Package poll implements the single poll-until-condition loop shared by
// process-exit waiting, service-status waiting, and lock-file waiting.
//
// All three call sites have the same shape: re-check an external resource,
// suspend for an interval (optionally jittered), and give up after a budget.
// Centralizing the loop keeps timeout reporting and cancellation behavior
// identical across components.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/svcctl/internal/logging"
	"github.com/giantswarm/svcctl/internal/sentinel"
)

// ErrWaitTimeout is returned when a bounded wait exceeds its budget before
// the condition holds. The wrapping message carries the elapsed time and the
// target condition so operators can tell "slow" from "stuck".
const ErrWaitTimeout = sentinel.Error("wait timed out")

// ErrIntervalNotPositive indicates a non-positive poll interval.
const ErrIntervalNotPositive = sentinel.Error("interval must be positive")

// Condition reports whether the awaited state has been reached. The context
// is canceled when the loop times out or the caller cancels, so checks that
// do I/O can exit promptly. The attempt parameter is 1-based. A non-nil error
// is fatal and aborts polling.
type Condition func(ctx context.Context, attempt int) (done bool, err error)

// Config describes one wait.
type Config struct {
	// Interval is the base delay between checks. Required.
	Interval time.Duration

	// JitterFactor randomizes each delay within [Interval, Interval*(1+f)]
	// to avoid thundering-herd re-checks when many waiters share a resource.
	// Zero means a fixed cadence.
	JitterFactor float64

	// Timeout bounds the whole wait. Zero means no budget of its own; the
	// caller's context is then the only bound.
	Timeout time.Duration

	// Name identifies the awaited resource in log entries and error messages
	// (e.g. "process 4312", "service ingestd"). Required.
	Name string

	// Target describes the awaited condition (e.g. "exit", "status Running").
	Target string

	// Logger is optional; logging.Logger() is used when nil.
	Logger *slog.Logger
}

// Until polls cond until it reports done, the budget elapses, or the context
// is canceled.
//
// Caller cancellation is surfaced as the context's own error so callers can
// distinguish it from a timeout with errors.Is(err, context.Canceled); it has
// no side effect on the observed resource.
func Until(ctx context.Context, cfg Config, cond Condition) error {
	if cfg.Name == "" {
		return errors.New("poll: name must not be empty")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cond == nil {
		return fmt.Errorf("wait for %s: condition must not be nil", cfg.Name)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Logger()
	}

	start := time.Now()

	// attempt needs no synchronization: both apimachinery pollers invoke the
	// condition sequentially, never concurrently with itself.
	attempt := 0
	check := func(pollCtx context.Context) (bool, error) {
		attempt++
		done, err := cond(pollCtx, attempt)
		if err != nil {
			return false, err
		}
		if done {
			log.Debug("wait satisfied", "name", cfg.Name, "target", cfg.Target, "attempt", attempt)
		}
		return done, nil
	}

	pollCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var err error
	if cfg.JitterFactor > 0 {
		// Constant-interval backoff with jitter. Steps is effectively
		// unbounded; pollCtx carries the real budget.
		backoff := wait.Backoff{
			Duration: cfg.Interval,
			Factor:   1.0,
			Jitter:   cfg.JitterFactor,
			Steps:    math.MaxInt32,
		}
		err = wait.ExponentialBackoffWithContext(pollCtx, backoff, check)
	} else {
		err = wait.PollUntilContextCancel(pollCtx, cfg.Interval, true, check)
	}
	if err == nil {
		return nil
	}

	// Caller cancellation passes through untouched so errors.Is still sees
	// context.Canceled (or the caller's own deadline).
	if ctx.Err() != nil {
		return fmt.Errorf("wait for %s %s: %w", cfg.Name, cfg.Target, ctx.Err())
	}
	if wait.Interrupted(err) {
		return fmt.Errorf("wait for %s %s: %w after %s",
			cfg.Name, cfg.Target, ErrWaitTimeout, time.Since(start).Round(time.Millisecond))
	}
	return fmt.Errorf("wait for %s %s: %w", cfg.Name, cfg.Target, err)
}
