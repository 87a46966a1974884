package resilience

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls the bounded-retry loop around one fetch unit.
// Backoff is strict exponential: BackoffBase * Multiplier^attempt, so
// the defaults sleep 1s, then 2s, then 4s between attempts.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first
	// try). A value of 1 means no retries. Default: 3.
	MaxAttempts int

	// BackoffBase is the sleep before the first retry. Default: 1s.
	BackoffBase time.Duration

	// Multiplier scales the backoff after each attempt. Default: 2.0.
	Multiplier float64

	// ShouldRetry optionally overrides the default transient-error
	// check. If nil, IsTransient is used.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep with the attempt number
	// (1-based) and the error that triggered it.
	OnRetry func(attempt int, err error)

	// Sleep replaces the real backoff sleep in tests. If nil, a
	// context-aware timer sleep is used.
	Sleep func(ctx context.Context, d time.Duration)
}

// DefaultRetryConfig returns the fetch retry policy: three attempts,
// exponential backoff starting at one second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BackoffBase: time.Second,
		Multiplier:  2.0,
	}
}

// Do executes fn up to cfg.MaxAttempts times, sleeping between attempts
// only when the error is retryable. Non-retryable errors are returned
// immediately.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal executes fn with the same semantics as Do and preserves the
// value from the successful call.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)

	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}

		if !shouldRetry(lastErr) {
			return zero, lastErr
		}

		// No sleep after the final attempt.
		if attempt >= cfg.MaxAttempts-1 {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, lastErr)
		}

		sleep(ctx, backoffDelay(attempt, cfg))
	}

	return zero, lastErr
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	return cfg
}

func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	return time.Duration(float64(cfg.BackoffBase) * math.Pow(cfg.Multiplier, float64(attempt)))
}

func timerSleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(component, target string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying after timeout",
			zap.String("component", component),
			zap.String("target", target),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
