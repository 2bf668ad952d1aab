package svcctl

import (
	"github.com/giantswarm/svcctl/internal/lockfile"
	"github.com/giantswarm/svcctl/internal/poll"
	"github.com/giantswarm/svcctl/internal/proc"
	"github.com/giantswarm/svcctl/internal/service"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrWaitTimeout is returned when a wait's time budget runs out before the
	// awaited condition is reached.
	ErrWaitTimeout = poll.ErrWaitTimeout

	// ErrUnexpectedExitCode is returned by process waits when the process
	// exits with a code the caller's predicate rejects.
	ErrUnexpectedExitCode = proc.ErrUnexpectedExitCode

	// ErrAlreadyLocked is returned by LockFile.Lock when the lock file
	// already exists.
	ErrAlreadyLocked = lockfile.ErrAlreadyLocked

	// ErrProcessNotFound is returned by LockFile.OwningProcess when no live
	// owner can be determined from the lock file.
	ErrProcessNotFound = lockfile.ErrProcessNotFound

	// ErrServiceNotFound is returned when a named service does not exist.
	ErrServiceNotFound = service.ErrServiceNotFound

	// ErrWrongStatus is returned by Service.Start and Service.Stop when the
	// service's current status does not permit the transition.
	ErrWrongStatus = service.ErrWrongStatus

	// ErrElevationRequired is returned by service create and delete when the
	// calling process lacks administrative privileges.
	ErrElevationRequired = service.ErrElevationRequired
)
