package sentinel

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  Error
		want string
	}{
		"simple message": {err: Error("operation failed"), want: "operation failed"},
		"empty message":  {err: Error(""), want: ""},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestError_ErrorsIs(t *testing.T) {
	t.Parallel()

	const errNotFound = Error("not found")

	wrapped := fmt.Errorf("open widget: %w", errNotFound)
	if !errors.Is(wrapped, errNotFound) {
		t.Error("errors.Is should match the sentinel through wrapping")
	}

	const errOther = Error("other")
	if errors.Is(wrapped, errOther) {
		t.Error("errors.Is should not match a different sentinel")
	}

	if errors.Is(errNotFound, errors.New("not found")) {
		t.Error("errors.Is should not match errors.New with the same text")
	}
}
