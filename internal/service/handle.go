package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giantswarm/svcctl/internal/logging"
	"github.com/giantswarm/svcctl/internal/poll"
	"github.com/giantswarm/svcctl/internal/proctable"
)

// DefaultStatusPollInterval is the cadence for status waits.
const DefaultStatusPollInterval = 250 * time.Millisecond

// Configuration store value names. These are fixed by the service manager's
// configuration schema, not chosen here.
const (
	valueImagePath        = "ImagePath"
	valueDisplayName      = "DisplayName"
	valueDelayedAutostart = "DelayedAutostart"
	valueDependOnService  = "DependOnService"
)

// Deps are the external capabilities a Handle operates through. Manager and
// Store are required; the rest default when nil or zero.
type Deps struct {
	// Manager answers status queries and issues start/stop requests.
	Manager Manager

	// Store is the per-service configuration store.
	Store ConfigStore

	// Tool creates and deletes services. Only required for Create/Delete.
	Tool *ControlTool

	// Elevated substitutes the privilege query; proctable.IsElevated when nil.
	Elevated proctable.ElevationFunc

	// PollInterval is the status-wait cadence; DefaultStatusPollInterval
	// when zero.
	PollInterval time.Duration

	// Logger is optional; logging.Logger() is used when nil.
	Logger *slog.Logger
}

// resolve fills in defaults and validates required capabilities.
func (d Deps) resolve() (Deps, error) {
	if d.Manager == nil {
		return Deps{}, fmt.Errorf("service deps: manager must not be nil")
	}
	if d.Store == nil {
		return Deps{}, fmt.Errorf("service deps: config store must not be nil")
	}
	if d.Elevated == nil {
		d.Elevated = proctable.IsElevated
	}
	if d.PollInterval <= 0 {
		d.PollInterval = DefaultStatusPollInterval
	}
	if d.Logger == nil {
		d.Logger = logging.Logger()
	}
	return d, nil
}

// Handle represents one OS-managed background service. It is a view onto
// external lifecycle state: status is re-queried before every decision and
// configuration round-trips to the store on every access, because an
// external actor may change either at any time.
type Handle struct {
	name string
	d    Deps
	log  *slog.Logger
}

// Open binds a handle to an existing service. Fails with ErrServiceNotFound
// if no service with that name exists.
func Open(ctx context.Context, name string, deps Deps) (*Handle, error) {
	h, err := newHandle(name, deps)
	if err != nil {
		return nil, err
	}
	if _, err := h.Status(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Create registers a new service through the control tool and immediately
// writes the real image to the configuration store (the tool itself only
// registers a placeholder). Requires elevation.
func Create(ctx context.Context, name string, image ImagePath, deps Deps) (*Handle, error) {
	h, err := newHandle(name, deps)
	if err != nil {
		return nil, err
	}
	if err := h.requireElevation("create"); err != nil {
		return nil, err
	}
	if h.d.Tool == nil {
		return nil, fmt.Errorf("create service %s: control tool must not be nil", name)
	}

	if _, err := h.d.Tool.Run(ctx, "create", name, "binPath=", placeholderBinPath); err != nil {
		return nil, fmt.Errorf("create service %s: %w", name, err)
	}
	if err := h.SetImage(ctx, image); err != nil {
		return nil, fmt.Errorf("create service %s: %w", name, err)
	}

	h.log.Debug("service created", "service", name, "image", image.String())
	return h, nil
}

func newHandle(name string, deps Deps) (*Handle, error) {
	if name == "" {
		return nil, fmt.Errorf("service name must not be empty")
	}
	d, err := deps.resolve()
	if err != nil {
		return nil, err
	}
	return &Handle{name: name, d: d, log: d.Logger}, nil
}

// Name returns the service name the handle is bound to.
func (h *Handle) Name() string {
	return h.name
}

// Status queries the service's current status. Never cached.
func (h *Handle) Status(ctx context.Context) (Status, error) {
	return h.d.Manager.Status(ctx, h.name)
}

// Delete unregisters the service through the control tool. The handle
// becomes a view onto nothing; further status queries fail with
// ErrServiceNotFound. Requires elevation.
func (h *Handle) Delete(ctx context.Context) error {
	if err := h.requireElevation("delete"); err != nil {
		return err
	}
	if h.d.Tool == nil {
		return fmt.Errorf("delete service %s: control tool must not be nil", h.name)
	}
	if _, err := h.d.Tool.Run(ctx, "delete", h.name); err != nil {
		return fmt.Errorf("delete service %s: %w", h.name, err)
	}
	h.log.Debug("service deleted", "service", h.name)
	return nil
}

// Start brings the service to Running. Already Running is a no-op; Stopped
// issues a start request; StartPending just waits. Any other status rejects
// the call with ErrWrongStatus: silently "succeeding" a start requested
// while the service is, say, paused would mask a real state conflict.
//
// With a positive timeout, Start polls until the status is Running and
// fails with a timeout error otherwise; with zero timeout it returns after
// issuing the request.
func (h *Handle) Start(ctx context.Context, timeout time.Duration) error {
	status, err := h.Status(ctx)
	if err != nil {
		return err
	}

	switch status {
	case StatusRunning:
		return nil
	case StatusStopped:
		if err := h.d.Manager.Start(ctx, h.name); err != nil {
			return fmt.Errorf("start service %s: %w", h.name, err)
		}
	case StatusStartPending:
		// Transition already in flight; fall through to the wait.
	default:
		return fmt.Errorf("start service %s from status %s: %w", h.name, status, ErrWrongStatus)
	}

	if timeout <= 0 {
		return nil
	}
	return h.WaitForStatus(ctx, StatusRunning, timeout)
}

// Stop brings the service to Stopped, mirroring Start: already Stopped is a
// no-op, Running issues a stop request, StopPending just waits, and any
// other status rejects the call with ErrWrongStatus.
func (h *Handle) Stop(ctx context.Context, timeout time.Duration) error {
	status, err := h.Status(ctx)
	if err != nil {
		return err
	}

	switch status {
	case StatusStopped:
		return nil
	case StatusRunning:
		if err := h.d.Manager.Stop(ctx, h.name); err != nil {
			return fmt.Errorf("stop service %s: %w", h.name, err)
		}
	case StatusStopPending:
		// Transition already in flight; fall through to the wait.
	default:
		return fmt.Errorf("stop service %s from status %s: %w", h.name, status, ErrWrongStatus)
	}

	if timeout <= 0 {
		return nil
	}
	return h.WaitForStatus(ctx, StatusStopped, timeout)
}

// WaitForStatus polls until the service's status equals target, re-querying
// fresh on every check.
func (h *Handle) WaitForStatus(ctx context.Context, target Status, timeout time.Duration) error {
	return poll.Until(ctx, poll.Config{
		Interval: h.d.PollInterval,
		Timeout:  timeout,
		Name:     "service " + h.name,
		Target:   "status " + target.String(),
		Logger:   h.log,
	}, func(pollCtx context.Context, _ int) (bool, error) {
		status, err := h.Status(pollCtx)
		if err != nil {
			return false, err
		}
		return status == target, nil
	})
}

// WaitForNonPending polls until the status is not one of the four pending
// variants and returns the stable status it settled on.
func (h *Handle) WaitForNonPending(ctx context.Context, timeout time.Duration) (Status, error) {
	var settled Status
	err := poll.Until(ctx, poll.Config{
		Interval: h.d.PollInterval,
		Timeout:  timeout,
		Name:     "service " + h.name,
		Target:   "non-pending status",
		Logger:   h.log,
	}, func(pollCtx context.Context, _ int) (bool, error) {
		status, err := h.Status(pollCtx)
		if err != nil {
			return false, err
		}
		settled = status
		return !status.Pending(), nil
	})
	if err != nil {
		return StatusUnknown, err
	}
	return settled, nil
}

func (h *Handle) requireElevation(op string) error {
	if !h.d.Elevated() {
		return fmt.Errorf("%s service %s: %w", op, h.name, ErrElevationRequired)
	}
	return nil
}

// Image reads the service's configured image from the store. ok is false
// when no image is configured.
func (h *Handle) Image(ctx context.Context) (ImagePath, bool, error) {
	raw, ok, err := h.d.Store.GetString(ctx, h.name, valueImagePath)
	if err != nil || !ok {
		return ImagePath{}, ok, err
	}
	image, err := ParseImagePath(raw)
	if err != nil {
		return ImagePath{}, false, fmt.Errorf("service %s image: %w", h.name, err)
	}
	return image, true, nil
}

// SetImage writes the service's image to the store. A zero image clears it.
func (h *Handle) SetImage(ctx context.Context, image ImagePath) error {
	if image.IsZero() {
		return h.d.Store.Delete(ctx, h.name, valueImagePath)
	}
	return h.d.Store.SetString(ctx, h.name, valueImagePath, image.String())
}

// DisplayName reads the service's display name; ok is false when unset.
func (h *Handle) DisplayName(ctx context.Context) (string, bool, error) {
	return h.d.Store.GetString(ctx, h.name, valueDisplayName)
}

// SetDisplayName writes the display name; an empty name clears it.
func (h *Handle) SetDisplayName(ctx context.Context, name string) error {
	return h.d.Store.SetString(ctx, h.name, valueDisplayName, name)
}

// DelayedAutostart reads the delayed-autostart flag, stored as a small
// integer. An absent value reads as false.
func (h *Handle) DelayedAutostart(ctx context.Context) (bool, error) {
	v, ok, err := h.d.Store.GetInt(ctx, h.name, valueDelayedAutostart)
	if err != nil {
		return false, err
	}
	return ok && v != 0, nil
}

// SetDelayedAutostart writes the delayed-autostart flag.
func (h *Handle) SetDelayedAutostart(ctx context.Context, delayed bool) error {
	v := int64(0)
	if delayed {
		v = 1
	}
	return h.d.Store.SetInt(ctx, h.name, valueDelayedAutostart, v)
}

// Dependencies reads the ordered list of services this service depends on.
// An absent value reads as an empty list.
func (h *Handle) Dependencies(ctx context.Context) ([]string, error) {
	values, _, err := h.d.Store.GetStringList(ctx, h.name, valueDependOnService)
	return values, err
}

// SetDependencies writes the dependency list in order; an empty list clears
// the entry.
func (h *Handle) SetDependencies(ctx context.Context, deps []string) error {
	return h.d.Store.SetStringList(ctx, h.name, valueDependOnService, deps)
}
