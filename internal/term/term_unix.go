//go:build linux || darwin

package term

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// TTY is the controlling terminal, addressed through stdout.
type TTY struct {
	fd    int
	saved *unix.Termios

	mu    sync.Mutex
	sigCh chan os.Signal
}

var errNotTerminal = errors.New("stdout is not a terminal")

// Open binds to the terminal on stdout. It fails when stdout is
// redirected, since the session cannot render or read through a pipe.
func Open() (*TTY, error) {
	fd := int(os.Stdout.Fd())
	if !xterm.IsTerminal(fd) {
		return nil, &Error{Op: "open", Err: errNotTerminal}
	}
	return &TTY{fd: fd}, nil
}

// Prepare switches the terminal out of canonical mode and disables
// echo, keeping all other attributes as they were. The saved state is
// reapplied by Restore.
func (t *TTY) Prepare() error {
	saved, err := unix.IoctlGetTermios(t.fd, ioctlReadTermios)
	if err != nil {
		return &Error{Op: "prepare", Err: err}
	}
	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if err := unix.IoctlSetTermios(t.fd, ioctlWriteTermios, &raw); err != nil {
		return &Error{Op: "prepare", Err: err}
	}
	t.saved = saved
	return nil
}

// Restore releases the interrupt mask if one is held and reapplies the
// termios state saved by Prepare. Safe to call when Prepare never ran.
func (t *TTY) Restore() error {
	t.releaseInterrupt()
	if t.saved == nil {
		return nil
	}
	saved := t.saved
	t.saved = nil
	if err := unix.IoctlSetTermios(t.fd, ioctlWriteTermios, saved); err != nil {
		return &Error{Op: "restore", Err: err}
	}
	return nil
}

// WindowSize reports the current terminal dimensions.
func (t *TTY) WindowSize() (Size, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, &Error{Op: "window size", Err: err}
	}
	return Size{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}

// MaskInterrupt starts catching SIGINT so an interactive interrupt is
// delivered through WaitInterrupt instead of killing the process.
func (t *TTY) MaskInterrupt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sigCh != nil {
		return
	}
	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, os.Interrupt)
}

// WaitInterrupt blocks until a masked SIGINT arrives. It returns an
// error when the mask is released before a signal is delivered.
func (t *TTY) WaitInterrupt() error {
	t.mu.Lock()
	ch := t.sigCh
	t.mu.Unlock()
	if ch == nil {
		return &Error{Op: "wait interrupt", Err: errors.New("interrupts not masked")}
	}
	if _, ok := <-ch; !ok {
		return &Error{Op: "wait interrupt", Err: errors.New("mask released")}
	}
	return nil
}

func (t *TTY) releaseInterrupt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sigCh == nil {
		return
	}
	signal.Stop(t.sigCh)
	close(t.sigCh)
	t.sigCh = nil
}

// InjectInput pushes bytes into the terminal input queue with TIOCSTI,
// one byte per ioctl. The kernel treats each byte as if it had been
// typed, so after the session exits the shell reads them as pending
// input. Requires the real controlling terminal; fails inside sandboxes
// that filter the ioctl.
func (t *TTY) InjectInput(data []byte) error {
	for i := range data {
		_, _, errno := unix.Syscall(
			unix.SYS_IOCTL,
			uintptr(t.fd),
			uintptr(unix.TIOCSTI),
			uintptr(unsafe.Pointer(&data[i])),
		)
		if errno != 0 {
			return &Error{Op: "inject input", Err: errno}
		}
	}
	return nil
}
