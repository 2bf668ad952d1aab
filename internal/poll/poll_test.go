package poll

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUntil_Validation(t *testing.T) {
	t.Parallel()

	always := func(context.Context, int) (bool, error) { return true, nil }

	tests := map[string]struct {
		cfg     Config
		cond    Condition
		wantErr error
	}{
		"missing name": {
			cfg:  Config{Interval: time.Millisecond},
			cond: always,
		},
		"non-positive interval": {
			cfg:     Config{Name: "thing"},
			cond:    always,
			wantErr: ErrIntervalNotPositive,
		},
		"nil condition": {
			cfg: Config{Name: "thing", Interval: time.Millisecond},
		},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := Until(context.Background(), tc.cfg, tc.cond)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUntil_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Until(context.Background(), Config{
		Interval: time.Millisecond,
		Timeout:  time.Second,
		Name:     "counter",
		Target:   "three attempts",
	}, func(_ context.Context, attempt int) (bool, error) {
		calls++
		if attempt != calls {
			t.Errorf("attempt = %d, want %d", attempt, calls)
		}
		return attempt >= 3, nil
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 3 {
		t.Errorf("condition called %d times, want 3", calls)
	}
}

func TestUntil_TimeoutReportsElapsedAndTarget(t *testing.T) {
	t.Parallel()

	err := Until(context.Background(), Config{
		Interval: time.Millisecond,
		Timeout:  20 * time.Millisecond,
		Name:     "service foo",
		Target:   "status Running",
	}, func(context.Context, int) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "status Running") {
		t.Errorf("error %q should name the target condition", msg)
	}
	if !strings.Contains(msg, "after") {
		t.Errorf("error %q should report elapsed time", msg)
	}
}

func TestUntil_CallerCancellationIsDistinct(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Until(ctx, Config{
		Interval: time.Millisecond,
		Timeout:  time.Minute,
		Name:     "never",
		Target:   "done",
	}, func(context.Context, int) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("cancellation must not look like a timeout: %v", err)
	}
}

func TestUntil_FatalConditionErrorAbortsPolling(t *testing.T) {
	t.Parallel()

	fatal := errors.New("broken probe")
	calls := 0
	err := Until(context.Background(), Config{
		Interval: time.Millisecond,
		Timeout:  time.Second,
		Name:     "probe",
		Target:   "done",
	}, func(context.Context, int) (bool, error) {
		calls++
		return false, fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected wrapped fatal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("condition called %d times, want 1", calls)
	}
}

func TestUntil_JitteredCadenceStillCompletes(t *testing.T) {
	t.Parallel()

	err := Until(context.Background(), Config{
		Interval:     time.Millisecond,
		JitterFactor: 0.5,
		Timeout:      time.Second,
		Name:         "jittered",
		Target:       "done",
	}, func(_ context.Context, attempt int) (bool, error) {
		return attempt >= 5, nil
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
