package service

import (
	"context"

	"github.com/giantswarm/svcctl/internal/sentinel"
)

// ErrServiceNotFound is returned when a named service does not exist in the
// OS registry of services.
const ErrServiceNotFound = sentinel.Error("service not found")

// ErrWrongStatus is returned when an operation is requested from a status
// that is neither its source state nor its already-satisfied terminal state.
const ErrWrongStatus = sentinel.Error("wrong service status")

// ErrElevationRequired is returned when a mutating control-tool operation is
// attempted without administrative privileges.
const ErrElevationRequired = sentinel.Error("administrative privileges required")

// Manager is the OS service-manager surface a Handle drives. Status must be
// answered fresh on every call, since an external actor may change the
// service at any time; implementations must not cache.
//
// Start and Stop issue the transition request and return without waiting;
// the Handle's own polling resolves the resulting pending state.
type Manager interface {
	Status(ctx context.Context, name string) (Status, error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
}

// ConfigStore is the per-service configuration store, keyed by service name
// (case-insensitive) and value name. Absence is reported as ok=false, never
// as an error. Every get and set is a single round trip with no transactional
// guarantee across values; writes clear any existing value before setting.
type ConfigStore interface {
	GetString(ctx context.Context, service, name string) (value string, ok bool, err error)

	// SetString stores value; an empty value clears the entry instead.
	SetString(ctx context.Context, service, name, value string) error

	GetInt(ctx context.Context, service, name string) (value int64, ok bool, err error)
	SetInt(ctx context.Context, service, name string, value int64) error

	GetStringList(ctx context.Context, service, name string) (values []string, ok bool, err error)

	// SetStringList stores values in order; an empty list clears the entry.
	SetStringList(ctx context.Context, service, name string, values []string) error

	// Delete removes the entry; deleting an absent entry is not an error.
	Delete(ctx context.Context, service, name string) error
}
