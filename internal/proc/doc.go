// Package proc manages a single spawned child process: it captures stdout and
// stderr line by line, enforces a wall-clock budget through a watchdog, and
// exposes exit-code-aware waiting.
package proc
