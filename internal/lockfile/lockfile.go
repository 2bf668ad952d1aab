// Package lockfile implements a cooperative, filesystem-visible mutual
// exclusion token shared across independent processes.
//
// The lock is a plain-text file whose entire content is the decimal process
// id of the owner. State is observed, never cached: a waiter re-checks the
// file on every poll, and on a slower cadence asks the OS process table
// whether the recorded owner still exists. A lock whose owner is gone is
// orphaned and silently reclaimed, so a crashed owner cannot block waiters
// forever.
package lockfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/giantswarm/svcctl/internal/logging"
	"github.com/giantswarm/svcctl/internal/poll"
	"github.com/giantswarm/svcctl/internal/proctable"
	"github.com/giantswarm/svcctl/internal/sentinel"
)

// ErrAlreadyLocked is returned by Lock when the lock file already exists.
const ErrAlreadyLocked = sentinel.Error("already locked")

// ErrProcessNotFound is returned by OwningProcess when the lock file is
// absent, unreadable, or records a process that no longer exists. This is
// the same condition Wait treats as an orphaned lock.
const ErrProcessNotFound = sentinel.Error("owning process not found")

// Defaults for Config fields left at their zero value.
const (
	// DefaultPollInterval is the base delay between lock re-checks.
	DefaultPollInterval = 250 * time.Millisecond

	// DefaultJitterFactor spreads poll delays within [interval, 1.5*interval]
	// so many waiters on one lock do not re-check in lockstep.
	DefaultJitterFactor = 0.5

	// DefaultOwnerCheckInterval is the cadence of the owner-liveness check
	// while waiting. Deliberately much slower than the poll interval because
	// querying the OS process table is comparatively expensive.
	DefaultOwnerCheckInterval = 2 * time.Second

	// guardAcquireTimeout bounds guard acquisition for the synchronous Lock
	// call, which takes no context of its own.
	guardAcquireTimeout = 5 * time.Second
)

// Config customizes a LockFile. Zero values select defaults.
type Config struct {
	PollInterval       time.Duration
	JitterFactor       float64
	OwnerCheckInterval time.Duration

	// Alive substitutes the process-table query; proctable.Alive when nil.
	Alive proctable.AliveFunc

	// CurrentPID substitutes the claimed owner id; os.Getpid when nil.
	CurrentPID func() int

	Logger *slog.Logger
}

// LockFile is a named mutual-exclusion token tied to a process id. It does
// not hold any OS handle between calls; all state lives in the file.
type LockFile struct {
	path               string
	guardPath          string
	pollInterval       time.Duration
	jitterFactor       float64
	ownerCheckInterval time.Duration
	alive              proctable.AliveFunc
	currentPID         func() int
	log                *slog.Logger
}

// New creates a LockFile for the given path. No filesystem access happens
// until a method is called.
func New(path string, cfg Config) *LockFile {
	l := &LockFile{
		path:               path,
		guardPath:          path + ".guard",
		pollInterval:       cfg.PollInterval,
		jitterFactor:       cfg.JitterFactor,
		ownerCheckInterval: cfg.OwnerCheckInterval,
		alive:              cfg.Alive,
		currentPID:         cfg.CurrentPID,
		log:                cfg.Logger,
	}
	if l.pollInterval <= 0 {
		l.pollInterval = DefaultPollInterval
	}
	if l.jitterFactor <= 0 {
		l.jitterFactor = DefaultJitterFactor
	}
	if l.ownerCheckInterval <= 0 {
		l.ownerCheckInterval = DefaultOwnerCheckInterval
	}
	if l.alive == nil {
		l.alive = proctable.Alive
	}
	if l.currentPID == nil {
		l.currentPID = os.Getpid
	}
	if l.log == nil {
		l.log = logging.Logger()
	}
	return l
}

// Path returns the lock file path.
func (l *LockFile) Path() string {
	return l.path
}

// Lock claims the lock immediately. It creates parent directories as needed
// and writes the current process id; if the lock file already exists it
// fails with ErrAlreadyLocked without waiting.
func (l *LockFile) Lock() error {
	ctx, cancel := context.WithTimeout(context.Background(), guardAcquireTimeout)
	defer cancel()

	// The guard file lives next to the lock file, so the directory must
	// exist before the guard can be taken.
	if err := l.ensureParentDir(); err != nil {
		return err
	}

	guard, err := acquireGuard(ctx, l.guardPath)
	if err != nil {
		return err
	}
	defer releaseGuard(l.log, guard)

	return l.claim()
}

// Wait blocks until the lock file is absent. With acquire it then claims the
// lock for the current process; without it Wait returns as soon as the path
// is observed free.
//
// While waiting, on the owner-check cadence the recorded owner is looked up
// in the OS process table; a lock whose owner is gone (or whose content does
// not parse) is reclaimed on the spot and the wait proceeds without a
// further poll delay. Cancellation unwinds without touching the lock file.
func (l *LockFile) Wait(ctx context.Context, acquire bool) error {
	target := "release"
	if acquire {
		target = "acquisition"
	}

	if err := l.ensureParentDir(); err != nil {
		return err
	}

	nextOwnerCheck := time.Now().Add(l.ownerCheckInterval)

	return poll.Until(ctx, poll.Config{
		Interval:     l.pollInterval,
		JitterFactor: l.jitterFactor,
		Name:         "lock " + l.path,
		Target:       target,
		Logger:       l.log,
	}, func(pollCtx context.Context, _ int) (bool, error) {
		return l.advance(pollCtx, acquire, &nextOwnerCheck)
	})
}

// advance performs one guarded wait step: try to make progress, and on the
// throttled cadence reclaim the lock if its owner is gone.
func (l *LockFile) advance(ctx context.Context, acquire bool, nextOwnerCheck *time.Time) (bool, error) {
	guard, err := acquireGuard(ctx, l.guardPath)
	if err != nil {
		// Cancellation mid-acquisition unwinds the poll loop promptly.
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, err
	}
	defer releaseGuard(l.log, guard)

	if done, err := l.tryProgress(acquire); done || err != nil {
		return done, err
	}

	// Lock is held by someone. The process-table query is comparatively
	// expensive, so it runs on its own slower cadence, not every poll.
	now := time.Now()
	if now.Before(*nextOwnerCheck) {
		return false, nil
	}
	*nextOwnerCheck = now.Add(l.ownerCheckInterval)

	if !l.ownerGone() {
		return false, nil
	}

	l.log.Debug("reclaiming orphaned lock", "path", l.path)
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("reclaim orphaned lock %s: %w", l.path, err)
	}

	// Proceed immediately: the wait must not pay another full cycle after
	// the check that detected the orphan.
	return l.tryProgress(acquire)
}

// tryProgress attempts the step that would finish the wait: claiming the
// lock when acquiring, or observing the path free otherwise.
func (l *LockFile) tryProgress(acquire bool) (bool, error) {
	if acquire {
		err := l.claim()
		if err == nil {
			return true, nil
		}
		if errors.Is(err, ErrAlreadyLocked) {
			return false, nil
		}
		return false, err
	}

	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	} else if err != nil {
		return false, fmt.Errorf("stat lock %s: %w", l.path, err)
	}
	return false, nil
}

// ensureParentDir creates the lock file's parent directory. It must run
// before guard acquisition: the guard file shares the directory, and flock
// does not create missing parents.
func (l *LockFile) ensureParentDir() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory for %s: %w", l.path, err)
	}
	return nil
}

// claim atomically creates the lock file with the current process id as its
// sole content. O_EXCL guarantees a single winner among concurrent claimers.
// The parent directory exists by the time claim runs.
func (l *LockFile) claim() error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("lock %s: %w", l.path, ErrAlreadyLocked)
		}
		return fmt.Errorf("create lock %s: %w", l.path, err)
	}

	_, writeErr := fmt.Fprintf(f, "%d\n", l.currentPID())
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		// A half-written lock would be reclaimed as malformed by the next
		// waiter, but clean up rather than rely on that.
		_ = os.Remove(l.path)
		if writeErr != nil {
			return fmt.Errorf("write lock %s: %w", l.path, writeErr)
		}
		return fmt.Errorf("write lock %s: %w", l.path, closeErr)
	}

	l.log.Debug("lock acquired", "path", l.path, "pid", l.currentPID())
	return nil
}

// ownerGone reports whether the lock can be reclaimed: the file is gone, its
// content does not parse as a process id, or the recorded process no longer
// exists. A failing process-table query is treated as "still alive" so a
// transient error never causes a live owner's lock to be stolen.
func (l *LockFile) ownerGone() bool {
	pid, err := l.readOwner()
	if err != nil {
		l.log.Debug("lock content unreadable; treating as orphaned", "path", l.path, "error", err)
		return true
	}

	alive, err := l.alive(pid)
	if err != nil {
		l.log.Warn("process table query failed; assuming owner alive", "path", l.path, "pid", pid, "error", err)
		return false
	}
	return !alive
}

// readOwner parses the recorded owner process id from the lock file.
func (l *LockFile) readOwner() (int, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("parse lock content %q: %w", strings.TrimSpace(string(content)), err)
	}
	return pid, nil
}

// OwningProcess returns the process id recorded in the lock file, verifying
// the process still exists. Absent file, malformed content, and a dead owner
// all collapse to ErrProcessNotFound; this is exactly the condition Wait
// treats as safe to reclaim.
func (l *LockFile) OwningProcess() (int, error) {
	pid, err := l.readOwner()
	if err != nil {
		return 0, fmt.Errorf("lock %s: %w", l.path, ErrProcessNotFound)
	}

	alive, err := l.alive(pid)
	if err != nil {
		return 0, fmt.Errorf("lock %s pid %d: %w", l.path, pid, err)
	}
	if !alive {
		return 0, fmt.Errorf("lock %s pid %d: %w", l.path, pid, ErrProcessNotFound)
	}
	return pid, nil
}

// Release deletes the lock file unconditionally, regardless of who owns it.
// Callers are expected to release only locks they believe they hold; no
// ownership token is verified. A missing file is not an error.
func (l *LockFile) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// Close releases the lock, mirroring Release. Safe to call more than once.
func (l *LockFile) Close() error {
	return l.Release()
}
