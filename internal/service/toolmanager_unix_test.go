//go:build unix

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeTool writes a shell script that mimics the service manager's control
// command closely enough to exercise the real process plumbing.
func fakeTool(t *testing.T) *ControlTool {
	t.Helper()

	script := `#!/bin/sh
cmd="$1"
name="$2"
case "$cmd" in
query)
	if [ "$name" = "agent" ]; then
		echo "SERVICE_NAME: agent"
		echo "        TYPE               : 10  WIN32_OWN_PROCESS"
		echo "        STATE              : 4  RUNNING"
		exit 0
	fi
	echo "[SC] EnumQueryServicesStatus:OpenService FAILED 1060:"
	echo ""
	echo "The specified service does not exist as an installed service."
	exit 1
	;;
start|stop)
	echo "[SC] ControlService SUCCESS"
	exit 0
	;;
create|delete)
	echo "[SC] SUCCESS"
	exit 0
	;;
*)
	echo "unknown command $cmd" >&2
	exit 2
	;;
esac
`
	path := filepath.Join(t.TempDir(), "fakesc")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return &ControlTool{Path: path, Timeout: 10 * time.Second}
}

func TestToolManagerStatus(t *testing.T) {
	t.Parallel()

	m := &ToolManager{Tool: fakeTool(t)}

	status, err := m.Status(context.Background(), "agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusRunning {
		t.Errorf("expected Running, got %s", status)
	}
}

func TestToolManagerStatusNotFound(t *testing.T) {
	t.Parallel()

	m := &ToolManager{Tool: fakeTool(t)}

	_, err := m.Status(context.Background(), "ghost")
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestToolManagerStartStop(t *testing.T) {
	t.Parallel()

	m := &ToolManager{Tool: fakeTool(t)}

	if err := m.Start(context.Background(), "agent"); err != nil {
		t.Errorf("start: unexpected error: %v", err)
	}
	if err := m.Stop(context.Background(), "agent"); err != nil {
		t.Errorf("stop: unexpected error: %v", err)
	}
}

func TestControlToolEmptyPath(t *testing.T) {
	t.Parallel()

	tool := &ControlTool{}
	if _, err := tool.Run(context.Background(), "query", "agent"); err == nil {
		t.Fatal("expected error for empty tool path")
	}
}

func TestControlToolOutputSink(t *testing.T) {
	t.Parallel()

	tool := fakeTool(t)
	var sink lineSink
	tool.OnOutputLine = sink.collect

	out, err := tool.Run(context.Background(), "query", "agent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected captured output lines")
	}
	if got := sink.snapshot(); len(got) != len(out) {
		t.Errorf("sink received %d lines, capture has %d", len(got), len(out))
	}
}

func TestCreateDelete(t *testing.T) {
	t.Parallel()

	m := newFakeManager(map[string]Status{"agent": StatusStopped})
	store := newFakeStore()
	deps := fastDeps(m, store)
	deps.Tool = fakeTool(t)

	image := ImagePath{Executable: "/opt/svc/agent", Arguments: "run"}
	h, err := Create(context.Background(), "agent", image, deps)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, ok, err := h.Image(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected image after create, got ok=%v err=%v", ok, err)
	}
	if got != image {
		t.Errorf("expected %+v, got %+v", image, got)
	}

	if err := h.Delete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

// lineSink collects callback lines under a mutex, since the output callbacks
// fire on the process's scan goroutines.
type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) collect(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *lineSink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
