//go:build unix

package proc

import (
	"errors"
	"os"
	"syscall"
)

// killTree terminates the process and every descendant in its process group.
// Descendants inherit the output pipe write ends; a survivor would keep the
// streams open long after the direct child is gone, stalling exit
// observation. The group exists because configureSysProcAttr sets Setpgid.
func killTree(pid int, proc *os.Process) error {
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if err == nil || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	// Group kill failed for another reason; at least take down the direct
	// child.
	if killErr := proc.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
		return killErr
	}
	return nil
}
