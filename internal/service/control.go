package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/giantswarm/svcctl/internal/logging"
	"github.com/giantswarm/svcctl/internal/proc"
)

// DefaultControlTimeout bounds a single control-tool invocation. The tool
// only talks to the local service manager, so anything slower than this is
// stuck, not busy.
const DefaultControlTimeout = 30 * time.Second

// placeholderBinPath is the image registered by the control tool's create
// subcommand. The tool requires a non-empty binary path at registration
// time; the real image is written to the configuration store immediately
// afterwards.
const placeholderBinPath = "svcctl-placeholder"

// ControlTool invokes the external service-manager control command. Each
// invocation runs through a managed process with a bounded budget and its
// output lines forwarded to the optional sink.
type ControlTool struct {
	// Path is the control command, e.g. "sc". Required.
	Path string

	// Timeout bounds one invocation; DefaultControlTimeout when zero.
	Timeout time.Duration

	// OnOutputLine, when non-nil, receives every stdout line the tool
	// prints. Used by callers that surface tool output to operators.
	OnOutputLine func(line string)

	// Logger is optional; logging.Logger() is used when nil.
	Logger *slog.Logger
}

// Run executes the tool with the given arguments, captures its output, and
// requires exit code zero. The captured stdout lines are returned in both
// the success and failure cases so callers can inspect tool diagnostics.
func (t *ControlTool) Run(ctx context.Context, args ...string) ([]string, error) {
	if t.Path == "" {
		return nil, fmt.Errorf("control tool path must not be empty")
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultControlTimeout
	}
	log := t.Logger
	if log == nil {
		log = logging.Logger()
	}

	p, err := proc.Start(proc.Spec{
		Path:     t.Path,
		Args:     args,
		Timeout:  timeout,
		OnStdout: t.OnOutputLine,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("run control tool %s %s: %w", t.Path, strings.Join(args, " "), err)
	}
	defer p.Close()

	if err := p.WaitExitCode(ctx, 0); err != nil {
		return p.Stdout(), fmt.Errorf("control tool %s %s: %w", t.Path, strings.Join(args, " "), err)
	}
	return p.Stdout(), nil
}
