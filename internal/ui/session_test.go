package ui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrasky/bis/internal/search"
	"github.com/jrasky/bis/internal/term"
	"github.com/jrasky/bis/internal/termcap"
)

type fakeTerminal struct {
	mu       sync.Mutex
	size     term.Size
	prepared int
	restored int

	prepareErr error
	injectErr  error
	injected   []string

	// nudge injections are forwarded here so a blocked input reader
	// wakes up the way a real TIOCSTI space would.
	nudge io.Writer

	sigCh chan struct{}
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{size: term.Size{Rows: 24, Cols: 80}}
}

func (f *fakeTerminal) Prepare() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared++
	return f.prepareErr
}

func (f *fakeTerminal) Restore() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored++
	if f.sigCh != nil {
		close(f.sigCh)
		f.sigCh = nil
	}
	return nil
}

func (f *fakeTerminal) WindowSize() (term.Size, error) { return f.size, nil }

func (f *fakeTerminal) MaskInterrupt() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sigCh == nil {
		f.sigCh = make(chan struct{}, 1)
	}
}

func (f *fakeTerminal) WaitInterrupt() error {
	f.mu.Lock()
	ch := f.sigCh
	f.mu.Unlock()
	if ch == nil {
		return errors.New("not masked")
	}
	if _, ok := <-ch; !ok {
		return errors.New("mask released")
	}
	return nil
}

func (f *fakeTerminal) interrupt() {
	f.mu.Lock()
	ch := f.sigCh
	f.mu.Unlock()
	if ch != nil {
		ch <- struct{}{}
	}
}

func (f *fakeTerminal) InjectInput(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.injectErr != nil {
		return f.injectErr
	}
	f.injected = append(f.injected, string(data))
	if string(data) == " " && f.nudge != nil {
		f.nudge.Write(data)
	}
	return nil
}

func (f *fakeTerminal) injections() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.injected...)
}

func (f *fakeTerminal) restoreCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.restored
}

// syncBuffer lets the test poll session output while Run is writing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func testControl() *termcap.Control {
	return termcap.New(map[string]string{
		termcap.CursorUp:      "[UP%p1%d]",
		termcap.CursorBack:    "[BACK%p1%d]",
		termcap.SaveCursor:    "[SC]",
		termcap.RestoreCursor: "[RC]",
		termcap.ClearToEnd:    "[ED]",
	}, nil)
}

func testBase() *search.Base {
	base := search.NewBase()
	base.Add("git status", 0)
	base.Add("git commit -m fix", 1)
	base.Add("ls -la", 2)
	return base
}

func TestRunAcceptInjectsBest(t *testing.T) {
	inR, inW := io.Pipe()
	ft := newFakeTerminal()
	ft.nudge = inW
	out := &syncBuffer{}

	s := NewSession(Options{
		Terminal: ft,
		Control:  testControl(),
		Base:     testBase(),
		Input:    inR,
		Output:   out,
		Prompt:   "Match: ",
	})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	defer inW.Close()

	inW.Write([]byte("itatus"))
	// Results come back in query order, so once a render shows only
	// "git status" every later result is the same and best is stable.
	waitFor(t, func() bool { return strings.Contains(out.String(), "[ED]\ngit status[RC]") })
	inW.Write([]byte("\n"))

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	injected := ft.injections()
	if len(injected) != 2 {
		t.Fatalf("injections = %q, want nudge then text", injected)
	}
	if injected[0] != " " {
		t.Errorf("first injection = %q, want nudge space", injected[0])
	}
	if injected[1] != "git status" {
		t.Errorf("second injection = %q", injected[1])
	}
	if ft.restoreCount() != 1 {
		t.Errorf("restore count = %d", ft.restoreCount())
	}
	if !strings.Contains(out.String(), " -> git status") {
		t.Errorf("output missing closing line: %q", out.String())
	}
}

func TestRunAcceptWithoutBest(t *testing.T) {
	inR, inW := io.Pipe()
	ft := newFakeTerminal()
	out := &syncBuffer{}

	s := NewSession(Options{
		Terminal: ft,
		Control:  testControl(),
		Base:     testBase(),
		Input:    inR,
		Output:   out,
		Prompt:   "Match: ",
	})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	defer inW.Close()

	inW.Write([]byte("\n"))
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ft.injections()) != 0 {
		t.Errorf("injections = %q, want none", ft.injections())
	}
	if strings.Contains(out.String(), " -> ") {
		t.Errorf("output should not contain closing arrow: %q", out.String())
	}
}

func TestRunCancelEOT(t *testing.T) {
	inR, inW := io.Pipe()
	ft := newFakeTerminal()
	out := &syncBuffer{}

	s := NewSession(Options{
		Terminal: ft,
		Control:  testControl(),
		Base:     testBase(),
		Input:    inR,
		Output:   out,
		Prompt:   "Match: ",
	})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	defer inW.Close()

	inW.Write([]byte("itatus"))
	waitFor(t, func() bool { return strings.Contains(out.String(), "[ED]\ngit status[RC]") })
	inW.Write([]byte{charEOT})

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ft.injections()) != 0 {
		t.Errorf("cancel must not inject, got %q", ft.injections())
	}
	if strings.Contains(out.String(), " -> ") {
		t.Errorf("cancel must not draw the closing arrow: %q", out.String())
	}
	if ft.restoreCount() != 1 {
		t.Errorf("restore count = %d", ft.restoreCount())
	}
}

func TestRunInterruptCancels(t *testing.T) {
	inR, inW := io.Pipe()
	ft := newFakeTerminal()
	out := &syncBuffer{}

	s := NewSession(Options{
		Terminal: ft,
		Control:  testControl(),
		Base:     testBase(),
		Input:    inR,
		Output:   out,
		Prompt:   "Match: ",
	})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	defer inW.Close()

	waitFor(t, func() bool { return strings.Contains(out.String(), "Match: ") })
	ft.interrupt()

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ft.injections()) != 0 {
		t.Errorf("interrupt must not inject, got %q", ft.injections())
	}
	if ft.restoreCount() != 1 {
		t.Errorf("restore count = %d", ft.restoreCount())
	}
}

func TestRunPrepareError(t *testing.T) {
	ft := newFakeTerminal()
	ft.prepareErr = errors.New("no tty")

	s := NewSession(Options{
		Terminal: ft,
		Control:  testControl(),
		Base:     testBase(),
		Input:    strings.NewReader(""),
		Output:   &syncBuffer{},
		Prompt:   "Match: ",
	})
	if err := s.Run(); err == nil {
		t.Fatal("Run should fail when raw mode cannot be entered")
	}
	if ft.restoreCount() != 0 {
		t.Errorf("nothing to restore after failed prepare, count = %d", ft.restoreCount())
	}
}

func TestRunInjectErrorReported(t *testing.T) {
	inR, inW := io.Pipe()
	ft := newFakeTerminal()
	ft.injectErr = errors.New("ioctl filtered")
	out := &syncBuffer{}

	s := NewSession(Options{
		Terminal: ft,
		Control:  testControl(),
		Base:     testBase(),
		Input:    inR,
		Output:   out,
		Prompt:   "Match: ",
	})

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	defer inW.Close()

	inW.Write([]byte("itatus"))
	waitFor(t, func() bool { return strings.Contains(out.String(), "[ED]\ngit status[RC]") })
	inW.Write([]byte("\n"))

	err := <-done
	if err == nil {
		t.Fatal("Run should report the injection failure")
	}
	if ft.restoreCount() != 1 {
		t.Errorf("restore count = %d", ft.restoreCount())
	}
}
