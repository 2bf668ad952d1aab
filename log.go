package svcctl

import (
	"log/slog"

	"github.com/giantswarm/svcctl/internal/logging"
)

// SetLogger replaces the package-level logger used by svcctl.
// This allows applications to integrate svcctl logging with their own
// logging infrastructure. The provided logger should already have any
// desired attributes; svcctl will not add additional attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with
// "component" attribute, re-derived on the next use and then cached.
// Call SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with other svcctl operations.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}
