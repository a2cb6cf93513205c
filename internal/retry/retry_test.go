package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestDo_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDo_TransientThenSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("down")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDo_AllAttemptsFail(t *testing.T) {
	calls := 0
	want := errors.New("down")
	err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ClassifierStops(t *testing.T) {
	calls := 0
	never := func(error) Decision { return Decision{Retry: false} }
	_ = Do(context.Background(), fastConfig(), never, func(context.Context) error {
		calls++
		return errors.New("permanent")
	})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDo_ContextErrorNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
		calls++
		return context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDo_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}
	err := Do(ctx, cfg, nil, func(context.Context) error {
		cancel()
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoff_CappedAtMaxWait(t *testing.T) {
	cfg := fastConfig()
	for attempt := range 10 {
		got := Backoff(cfg, attempt)
		// MaxWait plus 20% jitter.
		if got > 12*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v exceeds cap", attempt, got)
		}
	}
}
