package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Options controls retry behavior for a single operation.
type Options struct {
	// MaxAttempts is the total number of invocations, including the first.
	MaxAttempts uint64
	// InitialDelay is the wait after the first failure; it doubles after
	// each subsequent failure.
	InitialDelay time.Duration
	// RetryIf, when set, decides whether an error is worth retrying.
	// Errors it rejects are returned immediately.
	RetryIf func(error) bool
	// Logger receives the per-attempt warnings and the exhaustion error.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions matches the retry discipline used for every remote call:
// three attempts with delays of 500ms and 1s between them.
func DefaultOptions() Options {
	return Options{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
	}
}

// Do invokes op, retrying with exponential backoff on failure. Each failed
// attempt before exhaustion logs a warning; exhaustion logs an error and
// returns the final attempt's error to the caller.
func Do[T any](ctx context.Context, label string, op func() (T, error), opts Options) (T, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	// A zero MaxAttempts would underflow the retry budget below into
	// effectively unbounded retries
	maxAttempts := opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	eb := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(opts.InitialDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	)

	var result T
	attempt := uint64(0)

	operation := func() error {
		attempt++
		var err error
		result, err = op()
		if err != nil && opts.RetryIf != nil && !opts.RetryIf(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Attempt failed, retrying",
			"label", label,
			"attempt", attempt,
			"maxAttempts", maxAttempts,
			"wait", wait,
			"error", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(eb, maxAttempts-1), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		logger.Error("All attempts failed",
			"label", label,
			"attempts", attempt,
			"error", err)
		var zero T
		return zero, err
	}

	return result, nil
}
