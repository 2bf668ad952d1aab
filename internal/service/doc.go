// Package service drives one OS-managed background service through its
// lifecycle: open, create, delete, start, stop, and bounded status waits.
//
// A Handle is a view onto external state, not an owner of it: the service's
// status is queried fresh before every decision, and its configuration lives
// in an external store that every accessor round-trips to. Creation and
// deletion go through an external control tool rather than reimplementing
// the service manager.
package service
