package svcctl

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrorsMatchWrapped(t *testing.T) {
	t.Parallel()

	sentinels := map[string]error{
		"ErrWaitTimeout":        ErrWaitTimeout,
		"ErrUnexpectedExitCode": ErrUnexpectedExitCode,
		"ErrAlreadyLocked":      ErrAlreadyLocked,
		"ErrProcessNotFound":    ErrProcessNotFound,
		"ErrServiceNotFound":    ErrServiceNotFound,
		"ErrWrongStatus":        ErrWrongStatus,
		"ErrElevationRequired":  ErrElevationRequired,
	}

	for name, sentinel := range sentinels {
		name, sentinel := name, sentinel
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", sentinel))
			if !errors.Is(wrapped, sentinel) {
				t.Errorf("%s does not match through wrapping", name)
			}
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	if errors.Is(ErrWaitTimeout, ErrAlreadyLocked) {
		t.Error("distinct sentinels must not match each other")
	}
}
