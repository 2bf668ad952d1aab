package lockfile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// guardRetryInterval is the interval between attempts to acquire the guard
// flock. 50ms balances responsiveness against busy-polling overhead.
const guardRetryInterval = 50 * time.Millisecond

// acquireGuard takes an exclusive advisory lock on the guard file next to the
// lock file. The guard serializes the examine/claim/reclaim critical section
// across processes so a waiter cannot delete a lock file that another waiter
// re-created a moment earlier.
func acquireGuard(ctx context.Context, guardPath string) (*flock.Flock, error) {
	fl := flock.New(guardPath)

	locked, err := fl.TryLockContext(ctx, guardRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire guard lock %s: %w", guardPath, err)
	}
	if !locked {
		// TryLockContext should return an error when it fails; handle the
		// (false, nil) case anyway.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire guard lock %s: %w", guardPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquire guard lock %s: not acquired", guardPath)
	}
	return fl, nil
}

// releaseGuard releases the guard lock and closes its descriptor. The guard
// file is intentionally left on disk: removing it could invalidate a lock a
// concurrent process just acquired on the same inode. Best-effort cleanup,
// so errors are only logged.
func releaseGuard(log *slog.Logger, fl *flock.Flock) {
	if fl != nil {
		if err := fl.Close(); err != nil {
			log.Debug("release guard lock failed", "path", fl.Path(), "error", err)
		}
	}
}
