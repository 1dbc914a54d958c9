// Package term wraps the controlling terminal: raw-ish mode, window
// size, interrupt masking, and synthetic input injection.
package term

import "fmt"

// Size is the terminal window size in character cells.
type Size struct {
	Rows int
	Cols int
}

// Error wraps a terminal operation failure with the operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("term: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
