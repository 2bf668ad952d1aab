package svcctl

import (
	"context"
	"log/slog"

	"github.com/giantswarm/svcctl/internal/lockfile"
	"github.com/giantswarm/svcctl/internal/proc"
	"github.com/giantswarm/svcctl/internal/service"
	"github.com/giantswarm/svcctl/internal/svcstore"
)

// Process is a child process with captured output, an optional watchdog, and
// exit-code waits.
type Process = proc.Process

// ProcessSpec describes a process to spawn.
type ProcessSpec = proc.Spec

// ExitPredicate decides whether an exit code is acceptable to a wait.
type ExitPredicate = proc.ExitPredicate

// ExitCodeIs returns a predicate accepting exactly the given exit code.
func ExitCodeIs(want int) ExitPredicate {
	return proc.ExitCodeIs(want)
}

// Spawn starts the described process. The caller owns the returned handle
// and must Close it.
func Spawn(spec ProcessSpec) (*Process, error) {
	return proc.Start(spec)
}

// LockFile is a cooperative cross-process mutex backed by a file holding the
// owner's process ID.
type LockFile = lockfile.LockFile

// LockConfig tunes a LockFile; the zero value uses defaults.
type LockConfig = lockfile.Config

// NewLockFile returns a lock handle for path. No file is touched until Lock
// or Wait is called.
func NewLockFile(path string, cfg LockConfig) *LockFile {
	return lockfile.New(path, cfg)
}

// Service is a handle onto one OS-managed background service.
type Service = service.Handle

// ServiceDeps are the external capabilities a Service operates through.
type ServiceDeps = service.Deps

// Manager is the OS service-manager surface a Service drives.
type Manager = service.Manager

// ConfigStore is the per-service configuration store interface.
type ConfigStore = service.ConfigStore

// ControlTool invokes the external service-manager control command.
type ControlTool = service.ControlTool

// ToolManager implements Manager by driving the control tool's
// start/stop/query subcommands.
type ToolManager = service.ToolManager

// ImagePath is a service's configured image.
type ImagePath = service.ImagePath

// Status is a service's lifecycle state as reported by the service manager.
type Status = service.Status

// Service status values, following the service manager's state codes.
const (
	StatusUnknown         = service.StatusUnknown
	StatusStopped         = service.StatusStopped
	StatusStartPending    = service.StatusStartPending
	StatusStopPending     = service.StatusStopPending
	StatusRunning         = service.StatusRunning
	StatusContinuePending = service.StatusContinuePending
	StatusPausePending    = service.StatusPausePending
	StatusPaused          = service.StatusPaused
)

// OpenService binds a handle to an existing service. Fails with
// ErrServiceNotFound if no service with that name exists.
func OpenService(ctx context.Context, name string, deps ServiceDeps) (*Service, error) {
	return service.Open(ctx, name, deps)
}

// CreateService registers a new service and writes its image to the
// configuration store. Requires administrative privileges.
func CreateService(ctx context.Context, name string, image ImagePath, deps ServiceDeps) (*Service, error) {
	return service.Create(ctx, name, image, deps)
}

// ParseImagePath parses a serialized service image into executable and
// arguments, tolerating executables with unescaped spaces.
func ParseImagePath(s string) (ImagePath, error) {
	return service.ParseImagePath(s)
}

// Store is the SQLite-backed ConfigStore implementation.
type Store = svcstore.Store

// OpenConfigStore opens (creating if needed) the configuration store
// database at path. A nil logger uses the package logger.
func OpenConfigStore(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	return svcstore.Open(ctx, path, logger)
}
