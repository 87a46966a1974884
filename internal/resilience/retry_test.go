package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), DefaultRetryConfig(), func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "ok" {
		t.Errorf("expected ok, got %q", val)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_TimeoutsThenSuccess_BackoffSchedule(t *testing.T) {
	var slept []time.Duration
	cfg := DefaultRetryConfig()
	cfg.Sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
	}

	var calls int
	val, err := DoVal(context.Background(), cfg, func(_ context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(errors.New("read timeout"))
		}
		return "response", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "response" {
		t.Errorf("expected successful response, got %q", val)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	// Two timeouts on a three-attempt budget sleep 1s then 2s.
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("expected [1s 2s] backoff, got %v", slept)
	}
}

func TestDoVal_ExhaustsAttempts(t *testing.T) {
	var calls int
	cfg := DefaultRetryConfig()
	cfg.Sleep = func(_ context.Context, _ time.Duration) {}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (string, error) {
		calls++
		return "", NewTransientError(errors.New("timeout"))
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoVal_PermanentError_NoRetry(t *testing.T) {
	var calls int
	cfg := DefaultRetryConfig()
	cfg.Sleep = func(_ context.Context, _ time.Duration) {
		t.Fatal("must not sleep on permanent errors")
	}

	_, err := DoVal(context.Background(), cfg, func(_ context.Context) (string, error) {
		calls++
		return "", NewPermanentError(&StatusError{StatusCode: 404, URL: "http://example.com"})
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 404 {
		t.Errorf("expected StatusError 404 in chain, got %v", err)
	}
}

func TestDo_ContextCancelled_StopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 5
	cfg.Sleep = func(_ context.Context, _ time.Duration) {}

	err := Do(ctx, cfg, func(_ context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return NewTransientError(errors.New("timeout"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls after cancel, got %d", calls)
	}
}

func TestDoVal_OnRetryAttempts(t *testing.T) {
	var attempts []int
	cfg := DefaultRetryConfig()
	cfg.Sleep = func(_ context.Context, _ time.Duration) {}
	cfg.OnRetry = func(attempt int, _ error) {
		attempts = append(attempts, attempt)
	}

	_, _ = DoVal(context.Background(), cfg, func(_ context.Context) (int, error) {
		return 0, NewTransientError(errors.New("timeout"))
	})
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected OnRetry attempts [1 2], got %v", attempts)
	}
}
