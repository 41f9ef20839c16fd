// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package fabric

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_WithDefaults(t *testing.T) {
	p := RetryPolicy{}.withDefaults()
	if p.Attempts != DefaultRetryAttempts {
		t.Errorf("Attempts = %d, want %d", p.Attempts, DefaultRetryAttempts)
	}
	if p.Base != DefaultRetryBase {
		t.Errorf("Base = %v, want %v", p.Base, DefaultRetryBase)
	}
	if p.Initial != DefaultRetryInitial {
		t.Errorf("Initial = %v, want %v", p.Initial, DefaultRetryInitial)
	}
	if p.Cap != DefaultRetryCap {
		t.Errorf("Cap = %v, want %v", p.Cap, DefaultRetryCap)
	}
}

func TestRetryPolicy_BackoffGrowsAndCaps(t *testing.T) {
	p := RetryPolicy{Attempts: 5, Base: 2, Initial: time.Second, Cap: 4 * time.Second}

	for attempt := 0; attempt < 10; attempt++ {
		d := p.backoff(attempt)
		raw := float64(p.Initial) * pow(p.Base, float64(attempt))
		if raw > float64(p.Cap) {
			raw = float64(p.Cap)
		}
		min := time.Duration(raw * (1 - retryJitterFraction))
		max := time.Duration(raw * (1 + retryJitterFraction))
		if d < 0 {
			t.Fatalf("backoff(%d) negative: %v", attempt, d)
		}
		// every attempt's jittered delay must stay within jitter bounds of
		// whichever of (raw exponential, cap) applies.
		if d < min-time.Millisecond || d > max+time.Millisecond {
			t.Errorf("backoff(%d) = %v, want within [%v, %v]", attempt, d, min, max)
		}
	}
}

func TestPow(t *testing.T) {
	cases := []struct {
		base, exp, want float64
	}{
		{2, 0, 1},
		{2, 1, 2},
		{2, 3, 8},
		{3, 4, 81},
	}
	for _, c := range cases {
		if got := pow(c.base, c.exp); got != c.want {
			t.Errorf("pow(%v, %v) = %v, want %v", c.base, c.exp, got, c.want)
		}
	}
}

func TestRetry_SucceedsWithoutRetryOnFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Initial: time.Millisecond}, nil, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_StopsImmediatelyOnNonRetryableError(t *testing.T) {
	wantErr := errors.New("permanent")
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 5, Initial: time.Millisecond}, func(error) bool { return false }, func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-retryable error)", calls)
	}
}

func TestRetry_RetriesUpToAttemptsThenGivesUp(t *testing.T) {
	wantErr := errors.New("transient")
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 3, Initial: time.Millisecond, Cap: time.Millisecond}, func(error) bool { return true }, func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 3, Initial: time.Millisecond, Cap: time.Millisecond}, func(error) bool { return true }, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetry_ContextCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Retry(ctx, RetryPolicy{Attempts: 3, Initial: time.Hour}, func(error) bool { return true }, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
