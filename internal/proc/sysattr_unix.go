//go:build unix && !linux

package proc

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr puts the child in its own process group so a kill can
// reach every descendant, not only the direct child. Pdeathsig is a
// Linux-only kernel feature and is omitted here.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
