package service

import "fmt"

// Status is a service's current lifecycle state as reported by the OS
// service manager. The numeric values follow the service manager's own state
// codes so query output can be parsed directly.
type Status int

const (
	// StatusUnknown is the zero value, returned alongside an error.
	StatusUnknown Status = 0

	StatusStopped         Status = 1
	StatusStartPending    Status = 2
	StatusStopPending     Status = 3
	StatusRunning         Status = 4
	StatusContinuePending Status = 5
	StatusPausePending    Status = 6
	StatusPaused          Status = 7
)

// Pending reports whether s is one of the transient states that resolve to a
// stable state on their own.
func (s Status) Pending() bool {
	switch s {
	case StatusStartPending, StatusStopPending, StatusContinuePending, StatusPausePending:
		return true
	default:
		return false
	}
}

// String returns the conventional service-manager name for s.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusStartPending:
		return "StartPending"
	case StatusStopPending:
		return "StopPending"
	case StatusRunning:
		return "Running"
	case StatusContinuePending:
		return "ContinuePending"
	case StatusPausePending:
		return "PausePending"
	case StatusPaused:
		return "Paused"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// statusFromCode maps a service manager state code to a Status.
func statusFromCode(code int) (Status, bool) {
	s := Status(code)
	if s < StatusStopped || s > StatusPaused {
		return StatusUnknown, false
	}
	return s, true
}
