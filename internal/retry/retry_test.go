package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// classifyTag reads a marker from the error text. Tests build errors with
// the kind they want instead of real API failures.
func classifyTag(err error) Kind {
	switch {
	case strings.Contains(err.Error(), "rate"):
		return KindRateLimited
	case strings.Contains(err.Error(), "transient"):
		return KindTransient
	default:
		return KindFatal
	}
}

// sleepRecorder collects requested delays without sleeping.
func sleepRecorder(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDoSuccessNoRetry(t *testing.T) {
	var delays []time.Duration
	p := Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Sleep: sleepRecorder(&delays)}

	calls := 0
	got, err := Do(context.Background(), p, classifyTag, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(delays) != 0 {
		t.Errorf("slept %d times, want 0", len(delays))
	}
}

func TestDoRateLimitedBackoff(t *testing.T) {
	var delays []time.Duration
	p := Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second, Sleep: sleepRecorder(&delays)}

	calls := 0
	_, err := Do(context.Background(), p, classifyTag, func() (int, error) {
		calls++
		return 0, errors.New("rate limit hit")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (1 initial + 3 retries)", calls)
	}

	// Delays double each attempt: 1s, 2s, 4s.
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("slept %d times, want %d", len(delays), len(want))
	}
	for i, d := range delays {
		if d != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, d, want[i])
		}
	}

	if !strings.Contains(err.Error(), "rate limit exceeded after 3 retries") {
		t.Errorf("error = %q, want retry count in text", err)
	}
}

func TestDoBackoffCapped(t *testing.T) {
	p := Policy{MaxRetries: 10, BaseDelay: time.Second, MaxDelay: 4 * time.Second}

	for attempt := 0; attempt < 10; attempt++ {
		d := p.Backoff(attempt)
		if d > p.MaxDelay {
			t.Errorf("Backoff(%d) = %v exceeds cap %v", attempt, d, p.MaxDelay)
		}
	}
	if p.Backoff(0) != time.Second {
		t.Errorf("Backoff(0) = %v, want 1s", p.Backoff(0))
	}
	if p.Backoff(9) != 4*time.Second {
		t.Errorf("Backoff(9) = %v, want cap", p.Backoff(9))
	}
}

func TestDoTransientFlatDelay(t *testing.T) {
	var delays []time.Duration
	p := Policy{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second, Sleep: sleepRecorder(&delays)}

	_, err := Do(context.Background(), p, classifyTag, func() (int, error) {
		return 0, errors.New("transient upstream fault")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	for i, d := range delays {
		if d != 500*time.Millisecond {
			t.Errorf("delay[%d] = %v, want flat 500ms", i, d)
		}
	}
	if !strings.Contains(err.Error(), "service error after 2 retries") {
		t.Errorf("error = %q, want service error text", err)
	}
}

func TestDoFatalNoRetry(t *testing.T) {
	var delays []time.Duration
	p := Policy{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Sleep: sleepRecorder(&delays)}

	calls := 0
	_, err := Do(context.Background(), p, classifyTag, func() (int, error) {
		calls++
		return 0, errors.New("bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (fatal must not retry)", calls)
	}
	if len(delays) != 0 {
		t.Errorf("slept %d times, want 0", len(delays))
	}
	if !strings.Contains(err.Error(), "unexpected error") {
		t.Errorf("error = %q, want unexpected error prefix", err)
	}
}

func TestDoRecoversMidway(t *testing.T) {
	var delays []time.Duration
	p := Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second, Sleep: sleepRecorder(&delays)}

	calls := 0
	got, err := Do(context.Background(), p, classifyTag, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("rate limit hit")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "recovered" {
		t.Errorf("result = %q, want %q", got, "recovered")
	}
	if len(delays) != 2 {
		t.Errorf("slept %d times, want 2", len(delays))
	}
}

func TestDoCancelledSleep(t *testing.T) {
	p := Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		Sleep: func(_ context.Context, _ time.Duration) error {
			return context.Canceled
		},
	}

	_, err := Do(context.Background(), p, classifyTag, func() (int, error) {
		return 0, fmt.Errorf("rate limit hit")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
