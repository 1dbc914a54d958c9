//go:build !(linux || darwin)

package term

import "errors"

// TTY is unsupported on this platform.
type TTY struct{}

var errUnsupported = errors.New("unsupported platform")

func Open() (*TTY, error)     { return nil, &Error{Op: "open", Err: errUnsupported} }
func (t *TTY) Prepare() error { return &Error{Op: "prepare", Err: errUnsupported} }
func (t *TTY) Restore() error { return nil }
func (t *TTY) WindowSize() (Size, error) {
	return Size{}, &Error{Op: "window size", Err: errUnsupported}
}
func (t *TTY) MaskInterrupt()           {}
func (t *TTY) WaitInterrupt() error     { return &Error{Op: "wait interrupt", Err: errUnsupported} }
func (t *TTY) InjectInput([]byte) error { return &Error{Op: "inject input", Err: errUnsupported} }
