//go:build windows

package proctable

import "golang.org/x/sys/windows"

// IsElevated reports whether the current process token carries elevated
// (administrator) privileges.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
