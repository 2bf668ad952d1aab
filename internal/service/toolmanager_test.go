package service

import "testing"

func TestParseStateLine(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		lines []string
		want  Status
		ok    bool
	}{
		"running": {
			lines: []string{
				"SERVICE_NAME: agent",
				"        TYPE               : 10  WIN32_OWN_PROCESS",
				"        STATE              : 4  RUNNING",
				"        WIN32_EXIT_CODE    : 0  (0x0)",
			},
			want: StatusRunning,
			ok:   true,
		},
		"stop pending": {
			lines: []string{"STATE : 3 STOP_PENDING"},
			want:  StatusStopPending,
			ok:    true,
		},
		"no state line": {
			lines: []string{"SERVICE_NAME: agent", "TYPE : 10"},
		},
		"state code out of range": {
			lines: []string{"STATE : 99 BOGUS"},
		},
		"state code not numeric": {
			lines: []string{"STATE : RUNNING"},
		},
		"empty output": {},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := parseStateLine(tc.lines)
			if ok != tc.ok {
				t.Fatalf("expected ok %v, got %v", tc.ok, ok)
			}
			if tc.ok && got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestContainsNotFound(t *testing.T) {
	t.Parallel()

	missing := []string{
		"[SC] EnumQueryServicesStatus:OpenService FAILED 1060:",
		"",
		"The specified service does not exist as an installed service.",
	}
	if !containsNotFound(missing) {
		t.Error("expected not-found output to be recognized")
	}
	if containsNotFound([]string{"Access is denied."}) {
		t.Error("unrelated failure must not be recognized as not-found")
	}
}
