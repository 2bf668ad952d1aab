//go:build !unix

package proc

import (
	"errors"
	"os"
)

// killTree terminates the direct child. Without process groups there is no
// portable way to reach its descendants.
func killTree(_ int, proc *os.Process) error {
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
