//go:build linux

package proc

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr sets Linux-specific process attributes on cmd.
// Setpgid puts the child in its own process group so a kill can reach every
// descendant, not only the direct child. Pdeathsig ensures the child receives
// SIGTERM when its parent dies, so an abruptly killed caller does not leave
// orphaned children behind.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
