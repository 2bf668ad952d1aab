// Package proctable provides small OS capability queries: whether a process
// id is still alive and whether the current process is elevated. Both are
// exposed as function values so components can substitute fakes in tests
// instead of depending on real OS process enumeration.
package proctable

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// AliveFunc reports whether the process with the given id exists in the OS
// process table. Implementations should be cheap but are still assumed to be
// more expensive than a file stat; callers throttle how often they ask.
type AliveFunc func(pid int) (bool, error)

// ElevationFunc reports whether the current process runs with administrative
// privileges.
type ElevationFunc func() bool

// Alive is the default AliveFunc, backed by the OS process table.
func Alive(pid int) (bool, error) {
	exists, err := process.PidExists(int32(pid))
	if err != nil {
		return false, fmt.Errorf("query process table for pid %d: %w", pid, err)
	}
	return exists, nil
}
