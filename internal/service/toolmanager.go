package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// ToolManager implements Manager by driving the same external control tool
// used for create and delete, with start/stop/query subcommands. Query
// output is parsed for the conventional state line:
//
//	STATE              : 4  RUNNING
//
// A tool failure whose output reports that the service does not exist maps
// to ErrServiceNotFound; other failures propagate as-is.
type ToolManager struct {
	Tool *ControlTool
}

// Compile-time interface satisfaction check.
var _ Manager = (*ToolManager)(nil)

// Status queries the service manager for the service's current state.
func (m *ToolManager) Status(ctx context.Context, name string) (Status, error) {
	out, err := m.Tool.Run(ctx, "query", name)
	if err != nil {
		if containsNotFound(out) {
			return StatusUnknown, fmt.Errorf("service %s: %w", name, ErrServiceNotFound)
		}
		return StatusUnknown, err
	}
	status, ok := parseStateLine(out)
	if !ok {
		return StatusUnknown, fmt.Errorf("query service %s: no state line in output %q", name, out)
	}
	return status, nil
}

// Start issues the start request without waiting for the transition.
func (m *ToolManager) Start(ctx context.Context, name string) error {
	_, err := m.Tool.Run(ctx, "start", name)
	return err
}

// Stop issues the stop request without waiting for the transition.
func (m *ToolManager) Stop(ctx context.Context, name string) error {
	_, err := m.Tool.Run(ctx, "stop", name)
	return err
}

// containsNotFound reports whether the tool output indicates an unknown
// service. The conventional tool message is "The specified service does not
// exist as an installed service."
func containsNotFound(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "does not exist") {
			return true
		}
	}
	return false
}

// parseStateLine extracts the status from query output. The state line has
// the shape "STATE : <code> <NAME>"; only the numeric code is authoritative.
func parseStateLine(lines []string) (Status, bool) {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.EqualFold(fields[0], "STATE") || fields[1] != ":" {
			continue
		}
		code, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		return statusFromCode(code)
	}
	return StatusUnknown, false
}
