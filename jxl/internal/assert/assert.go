// Package assert holds the encoder's invariant checks. A failed check is a
// programming error, not an input error, so it panics with a stack trace.
package assert

import (
	"fmt"
	"runtime/debug"
)

// That panics with msg when condition is false.
func That(condition bool, msg string) {
	if !condition {
		fail(msg)
	}
}

// Thatf is That with a formatted message. The arguments are only formatted
// on failure.
func Thatf(condition bool, format string, args ...any) {
	if !condition {
		fail(fmt.Sprintf(format, args...))
	}
}

func fail(msg string) {
	panic("assertion failed: " + msg + "\n" + string(debug.Stack()))
}
