//go:build unix

package svcctl

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSpawnAndWait(t *testing.T) {
	t.Parallel()

	p, err := Spawn(ProcessSpec{
		Path: "/bin/sh",
		Args: []string{"-c", "echo ready"},
	})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.WaitExitCode(ctx, 0); err != nil {
		t.Fatalf("wait: %v", err)
	}
	out := p.Stdout()
	if len(out) != 1 || out[0] != "ready" {
		t.Errorf("expected [ready], got %v", out)
	}
}

func TestLockFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.lock")
	lock := NewLockFile(path, LockConfig{})

	if err := lock.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := NewLockFile(path, LockConfig{}).Lock(); !errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("expected ErrAlreadyLocked, got %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestOpenConfigStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "svc.db")
	store, err := OpenConfigStore(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	var _ ConfigStore = store
}
