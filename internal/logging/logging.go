// Package logging holds the package-level logger shared by svcctl components.
package logging

import (
	"log/slog"
	"sync/atomic"
)

// logger is the custom logger set via SetLogger, stored as an atomic pointer
// so reads and writes are data-race-free. Nil means no custom logger has been
// set and Logger falls back to the cached default.
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches the default-derived logger (slog.Default() with the
// svcctl component attribute) so it is not re-created on every Logger call.
// If slog.SetDefault is called after the first Logger call, the cached value
// will not reflect the change; calling SetLogger(nil) clears the cache so the
// next Logger call re-derives it.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the current package-level logger. If no custom logger has
// been set via SetLogger, it returns a cached logger derived from
// slog.Default() with the svcctl component attribute. Safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := newDefaultLogger()
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	// Another goroutine cached first; prefer its value, but never return nil
	// if a concurrent SetLogger cleared the cache in between.
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// newDefaultLogger derives the default logger with the component attribute.
func newDefaultLogger() *slog.Logger {
	return slog.Default().With("component", "svcctl")
}

// SetLogger replaces the package-level logger. A nil value resets to the
// default: slog.Default() with the component attribute, re-derived on the
// next Logger call. Safe to call concurrently with other svcctl operations.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
