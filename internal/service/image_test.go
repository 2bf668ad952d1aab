package service

import (
	"errors"
	"testing"
)

func TestParseImagePath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantExe string
		wantArg string
		wantErr error
	}{
		"plain executable": {
			input:   `C:\svc\agent.exe`,
			wantExe: `C:\svc\agent.exe`,
		},
		"executable with arguments": {
			input:   `C:\svc\agent.exe run --verbose`,
			wantExe: `C:\svc\agent.exe`,
			wantArg: `run --verbose`,
		},
		"quoted executable with spaces": {
			input:   `"C:\Program Files\svc\agent.exe" run`,
			wantExe: `C:\Program Files\svc\agent.exe`,
			wantArg: `run`,
		},
		"unquoted executable with spaces": {
			input:   `C:\Program Files\svc\agent.exe run --verbose`,
			wantExe: `C:\Program Files\svc\agent.exe`,
			wantArg: `run --verbose`,
		},
		"extension match is case insensitive": {
			input:   `C:\Program Files\svc\AGENT.EXE run`,
			wantExe: `C:\Program Files\svc\AGENT.EXE`,
			wantArg: `run`,
		},
		"no extension falls back to first token": {
			input:   `/usr/bin/agent run --verbose`,
			wantExe: `/usr/bin/agent`,
			wantArg: `run --verbose`,
		},
		"quoted argument survives": {
			input:   `C:\svc\agent.exe --name "my service"`,
			wantExe: `C:\svc\agent.exe`,
			wantArg: `--name "my service"`,
		},
		"empty input": {
			input:   ``,
			wantErr: ErrEmptyImagePath,
		},
		"whitespace only": {
			input:   `   `,
			wantErr: ErrEmptyImagePath,
		},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseImagePath(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Executable != tc.wantExe {
				t.Errorf("executable: expected %q, got %q", tc.wantExe, got.Executable)
			}
			if got.Arguments != tc.wantArg {
				t.Errorf("arguments: expected %q, got %q", tc.wantArg, got.Arguments)
			}
		})
	}
}

func TestImagePathString(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		image ImagePath
		want  string
	}{
		"plain": {
			image: ImagePath{Executable: `C:\svc\agent.exe`, Arguments: `run`},
			want:  `C:\svc\agent.exe run`,
		},
		"executable with spaces is quoted": {
			image: ImagePath{Executable: `C:\Program Files\svc\agent.exe`, Arguments: `run`},
			want:  `"C:\Program Files\svc\agent.exe" run`,
		},
		"no arguments": {
			image: ImagePath{Executable: `C:\svc\agent.exe`},
			want:  `C:\svc\agent.exe`,
		},
	}

	for name, tc := range tests {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tc.image.String(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestImagePathRoundTrip(t *testing.T) {
	t.Parallel()

	original := ImagePath{
		Executable: `C:\Program Files\svc\agent.exe`,
		Arguments:  `run --config "C:\Program Files\svc\agent.yaml"`,
	}

	parsed, err := ParseImagePath(original.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != original {
		t.Errorf("expected %+v, got %+v", original, parsed)
	}
}

func TestImagePathIsZero(t *testing.T) {
	t.Parallel()

	if !(ImagePath{}).IsZero() {
		t.Error("zero value must report IsZero")
	}
	if (ImagePath{Executable: "agent"}).IsZero() {
		t.Error("non-empty image must not report IsZero")
	}
}
