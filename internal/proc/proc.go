package proc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/svcctl/internal/logging"
	"github.com/giantswarm/svcctl/internal/poll"
	"github.com/giantswarm/svcctl/internal/sentinel"
)

// TimeoutMessage is the diagnostic line the watchdog appends to the error
// output when it kills a process that exceeded its budget.
const TimeoutMessage = "operation has timed out"

// DefaultWaitInterval is the cadence at which Wait re-checks the exit flag.
const DefaultWaitInterval = 50 * time.Millisecond

// ErrUnexpectedExitCode is returned by Wait when the process has exited but
// the exit-code predicate rejects the final code. The wrapping message
// carries the actual code.
const ErrUnexpectedExitCode = sentinel.Error("unexpected exit code")

// ErrEmptyPath is returned by Start when the spec has no executable path.
const ErrEmptyPath = sentinel.Error("executable path must not be empty")

// ExitPredicate judges a final exit code. A nil predicate accepts any code.
type ExitPredicate func(code int) bool

// ExitCodeIs returns a predicate that accepts exactly the given code.
func ExitCodeIs(want int) ExitPredicate {
	return func(code int) bool { return code == want }
}

// Spec describes a process to spawn.
type Spec struct {
	// Path is the executable to run. Required. Resolved through PATH when it
	// contains no separator, as exec.Command does.
	Path string

	// Args are the arguments, not including the executable name.
	Args []string

	// Dir is the working directory; empty means the caller's.
	Dir string

	// Timeout is the wall-clock budget enforced by the watchdog. Zero
	// disables the watchdog.
	Timeout time.Duration

	// OnStdout and OnStderr, when non-nil, receive each captured line. They
	// are invoked under the same lock that guards the output sequences and
	// must not block.
	OnStdout func(line string)
	OnStderr func(line string)

	// Logger is optional; logging.Logger() is used when nil.
	Logger *slog.Logger
}

// Process is one spawned child process with captured output.
//
// The output sequences are the only in-process shared mutable state; a single
// mutex guards both the appends from the stream scanners and the snapshot
// reads from callers. Everything else is either immutable after Start or
// synchronized through the exited broadcast channel.
type Process struct {
	cmd  *exec.Cmd
	pid  int
	name string
	log  *slog.Logger

	mu       sync.Mutex
	stdout   []string
	stderr   []string
	exitCode int
	exited   bool

	// exitedCh is closed by the reaper goroutine once cmd.Wait returns.
	// Readable by any number of goroutines (watchdog, Wait loops).
	exitedCh chan struct{}

	// watchStop cancels the watchdog. Idempotent.
	watchStop context.CancelFunc

	killOnce  sync.Once
	closeOnce sync.Once
}

// Start spawns the process described by spec with stdout and stderr captured
// line by line. Spawn failures (executable missing, not startable) surface
// immediately with the originating OS error.
//
// Exactly one cmd.Wait call is made per process, by a reaper goroutine
// started here; it runs after both stream scanners have drained their pipes,
// records the exit code, and closes the exit broadcast channel.
func Start(spec Spec) (*Process, error) {
	if spec.Path == "" {
		return nil, ErrEmptyPath
	}

	log := spec.Logger
	if log == nil {
		log = logging.Logger()
	}

	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	configureSysProcAttr(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe stdout for %s: %w", spec.Path, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe stderr for %s: %w", spec.Path, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", spec.Path, err)
	}

	p := &Process{
		cmd:      cmd,
		pid:      cmd.Process.Pid,
		name:     filepath.Base(spec.Path),
		log:      log,
		exitedCh: make(chan struct{}),
	}

	// Scanners must finish before cmd.Wait closes the pipes under them, so
	// the reaper joins them through the errgroup first.
	var g errgroup.Group
	g.Go(func() error {
		p.scan(stdoutPipe, &p.stdout, spec.OnStdout)
		return nil
	})
	g.Go(func() error {
		p.scan(stderrPipe, &p.stderr, spec.OnStderr)
		return nil
	})
	go func() {
		_ = g.Wait()
		p.recordExit(cmd.Wait())
		close(p.exitedCh)
	}()

	watchCtx, cancel := context.WithCancel(context.Background())
	p.watchStop = cancel
	if spec.Timeout > 0 {
		go p.watchdog(watchCtx, spec.Timeout)
	}

	log.Debug("process spawned", "process", p.name, "pid", p.pid, "timeout", spec.Timeout)
	return p, nil
}

// scan appends each line read from r to the given sequence under the shared
// mutex, forwarding it to the optional callback while the lock is held. Lines
// arrive asynchronously from the OS, out of band with caller-driven reads.
func (p *Process) scan(r io.Reader, seq *[]string, cb func(string)) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		p.mu.Lock()
		*seq = append(*seq, line)
		if cb != nil {
			cb(line)
		}
		p.mu.Unlock()
	}
	if err := sc.Err(); err != nil {
		p.log.Debug("output stream closed with error", "process", p.name, "pid", p.pid, "error", err)
	}
}

// recordExit stores the final exit code. A nil error or an ExitError both
// carry a code; any other Wait error (e.g. I/O trouble) records -1.
func (p *Process) recordExit(err error) {
	code := 0
	switch {
	case err == nil:
		if p.cmd.ProcessState != nil {
			code = p.cmd.ProcessState.ExitCode()
		}
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			p.log.Debug("process wait failed", "process", p.name, "pid", p.pid, "error", err)
			code = -1
		}
	}

	p.mu.Lock()
	p.exitCode = code
	p.exited = true
	p.mu.Unlock()

	p.log.Debug("process exited", "process", p.name, "pid", p.pid, "exit_code", code)
}

// watchdog kills the process once the budget elapses, unless the process
// exits or the watchdog is canceled (by Abort or Close) first. It runs
// independently of any Wait call.
func (p *Process) watchdog(ctx context.Context, budget time.Duration) {
	t := time.NewTimer(budget)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-p.exitedCh:
	case <-t.C:
		p.log.Warn("process exceeded time budget; killing",
			"process", p.name, "pid", p.pid, "timeout", budget)
		p.kill(TimeoutMessage)
	}
}

// kill terminates the process tree and records msg as an error line, exactly
// once across watchdog and caller-initiated aborts. Killing a process that
// already exited is harmless; the error is discarded.
func (p *Process) kill(msg string) {
	p.killOnce.Do(func() {
		p.mu.Lock()
		p.stderr = append(p.stderr, msg)
		p.mu.Unlock()

		if err := killTree(p.pid, p.cmd.Process); err != nil {
			p.log.Debug("kill failed", "process", p.name, "pid", p.pid, "error", err)
		}
	})
}

// Abort cancels the watchdog, forcibly terminates the process, and records
// msg as an error line. Safe to call more than once and safe against a
// process that has already exited.
func (p *Process) Abort(msg string) {
	p.watchStop()
	p.kill(msg)
}

// Wait polls the exit flag until the process has exited, then evaluates pred
// against the final exit code. A nil predicate accepts any code; rejection
// returns ErrUnexpectedExitCode wrapped with the actual code.
//
// Cancellation of ctx unwinds the wait without touching the process: only
// the watchdog or an explicit Abort may kill it.
func (p *Process) Wait(ctx context.Context, pred ExitPredicate) error {
	err := poll.Until(ctx, poll.Config{
		Interval: DefaultWaitInterval,
		Name:     fmt.Sprintf("process %d", p.pid),
		Target:   "exit",
		Logger:   p.log,
	}, func(context.Context, int) (bool, error) {
		return p.hasExited(), nil
	})
	if err != nil {
		return err
	}

	code, _ := p.ExitCode()
	if pred != nil && !pred(code) {
		return fmt.Errorf("process %d exited with code %d: %w", p.pid, code, ErrUnexpectedExitCode)
	}
	return nil
}

// WaitExitCode waits for exit and requires exactly the given code.
func (p *Process) WaitExitCode(ctx context.Context, want int) error {
	return p.Wait(ctx, ExitCodeIs(want))
}

// Close cancels any pending watchdog and releases the process handle once
// the process has exited. It never kills a still-running process; callers
// that want the process gone must Abort first. Safe to call more than once.
func (p *Process) Close() {
	p.closeOnce.Do(func() {
		p.watchStop()
		select {
		case <-p.exitedCh:
			if p.cmd.Process != nil {
				_ = p.cmd.Process.Release()
			}
		default:
			// Still running: leave the handle to the reaper goroutine.
		}
	})
}

// Pid returns the OS process id assigned at spawn.
func (p *Process) Pid() int {
	return p.pid
}

// Stdout returns a snapshot copy of the captured standard output lines.
func (p *Process) Stdout() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stdout...)
}

// Stderr returns a snapshot copy of the captured standard error lines,
// including any synthetic diagnostics appended by the watchdog or Abort.
func (p *Process) Stderr() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stderr...)
}

// ExitCode returns the final exit code and whether the process has exited.
func (p *Process) ExitCode() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, p.exited
}

// Exited returns a channel closed when the process exits. Safe to select on
// from any number of goroutines.
func (p *Process) Exited() <-chan struct{} {
	return p.exitedCh
}

func (p *Process) hasExited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exited
}
