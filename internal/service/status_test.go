package service

import "testing"

func TestStatusPending(t *testing.T) {
	t.Parallel()

	pending := map[Status]bool{
		StatusUnknown:         false,
		StatusStopped:         false,
		StatusStartPending:    true,
		StatusStopPending:     true,
		StatusRunning:         false,
		StatusContinuePending: true,
		StatusPausePending:    true,
		StatusPaused:          false,
	}

	for status, want := range pending {
		if got := status.Pending(); got != want {
			t.Errorf("%s: expected Pending %v, got %v", status, want, got)
		}
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	if got := StatusRunning.String(); got != "Running" {
		t.Errorf("expected Running, got %q", got)
	}
	if got := Status(42).String(); got != "Status(42)" {
		t.Errorf("expected Status(42), got %q", got)
	}
}

func TestStatusFromCode(t *testing.T) {
	t.Parallel()

	if s, ok := statusFromCode(4); !ok || s != StatusRunning {
		t.Errorf("code 4: expected Running, got %v (ok=%v)", s, ok)
	}
	if _, ok := statusFromCode(0); ok {
		t.Error("code 0 must not map to a status")
	}
	if _, ok := statusFromCode(8); ok {
		t.Error("code 8 must not map to a status")
	}
}
