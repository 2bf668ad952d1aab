// Package svcstore persists per-service configuration in a local SQLite
// database, implementing the service package's ConfigStore.
package svcstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	"github.com/giantswarm/svcctl/internal/logging"
	"github.com/giantswarm/svcctl/internal/service"
)

// schema holds one value per (service, name) pair. Service and value names
// collate case-insensitively, matching the service manager's own semantics.
const schema = `
CREATE TABLE IF NOT EXISTS service_config (
	service TEXT NOT NULL COLLATE NOCASE,
	name    TEXT NOT NULL COLLATE NOCASE,
	value   TEXT NOT NULL,
	PRIMARY KEY (service, name)
);
`

// listSeparator joins list values into one stored string. Service names
// cannot contain newlines, so the separator never collides with content.
const listSeparator = "\n"

// Store is a SQLite-backed configuration store.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Compile-time interface satisfaction check.
var _ service.ConfigStore = (*Store)(nil)

// Open opens (creating if needed) the store database at path. The parent
// directory is created when missing.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path must not be empty")
	}
	if logger == nil {
		logger = logging.Logger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	// WAL mode plus a generous busy timeout so concurrent tool invocations
	// sharing one store queue instead of failing.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Single connection; writes are serialized anyway, and one session
	// keeps the pragmas applied consistently.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("close sqlite after schema failure", "error", closeErr)
		}
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, log: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetString reads the value stored under (service, name). ok is false when
// no such entry exists.
func (s *Store) GetString(ctx context.Context, svc, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM service_config WHERE service = ? AND name = ?`,
		svc, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", svc, name, err)
	}
	return value, true, nil
}

// SetString stores value under (service, name), replacing any existing
// entry. An empty value clears the entry instead.
func (s *Store) SetString(ctx context.Context, svc, name, value string) error {
	if value == "" {
		return s.Delete(ctx, svc, name)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO service_config (service, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (service, name) DO UPDATE SET value = excluded.value`,
		svc, name, value,
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", svc, name, err)
	}
	return nil
}

// GetInt reads an integer value; a stored value that does not parse as an
// integer is an error, not absence.
func (s *Store) GetInt(ctx context.Context, svc, name string) (int64, bool, error) {
	raw, ok, err := s.GetString(ctx, svc, name)
	if err != nil || !ok {
		return 0, ok, err
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get %s/%s: value %q is not an integer", svc, name, raw)
	}
	return value, true, nil
}

// SetInt stores an integer value under (service, name).
func (s *Store) SetInt(ctx context.Context, svc, name string, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO service_config (service, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (service, name) DO UPDATE SET value = excluded.value`,
		svc, name, strconv.FormatInt(value, 10),
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", svc, name, err)
	}
	return nil
}

// GetStringList reads a list value, preserving order.
func (s *Store) GetStringList(ctx context.Context, svc, name string) ([]string, bool, error) {
	raw, ok, err := s.GetString(ctx, svc, name)
	if err != nil || !ok {
		return nil, ok, err
	}
	return strings.Split(raw, listSeparator), true, nil
}

// SetStringList stores values in order under (service, name). An empty list
// clears the entry.
func (s *Store) SetStringList(ctx context.Context, svc, name string, values []string) error {
	if len(values) == 0 {
		return s.Delete(ctx, svc, name)
	}
	for _, v := range values {
		if strings.Contains(v, listSeparator) {
			return fmt.Errorf("set %s/%s: list value %q contains a newline", svc, name, v)
		}
	}
	return s.SetString(ctx, svc, name, strings.Join(values, listSeparator))
}

// Delete removes the entry under (service, name). Deleting an absent entry
// is not an error.
func (s *Store) Delete(ctx context.Context, svc, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM service_config WHERE service = ? AND name = ?`,
		svc, name,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", svc, name, err)
	}
	return nil
}

// DeleteService removes every entry for the service, used when a service is
// unregistered.
func (s *Store) DeleteService(ctx context.Context, svc string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM service_config WHERE service = ?`,
		svc,
	)
	if err != nil {
		return fmt.Errorf("delete service %s: %w", svc, err)
	}
	return nil
}
