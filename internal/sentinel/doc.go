// Package sentinel provides a const-declarable error type for sentinel errors.
//
// errors.New returns a pointer stored in a mutable package variable, which a
// consumer could reassign. Error is a string-based error type that can be
// declared const, so the sentinel itself is immutable while still comparing
// correctly through wrapped chains with errors.Is.
package sentinel
