//go:build !unix

package proc

import "os/exec"

// configureSysProcAttr is a no-op where process groups and parent-death
// signals are unavailable.
func configureSysProcAttr(_ *exec.Cmd) {}
