// Package ui runs the interactive search session: it reads the query a
// rune at a time, streams ranked matches under the prompt, and on
// accept pushes the chosen line back into the terminal input queue.
package ui

import (
	"bufio"
	"io"
	"log/slog"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-runewidth"

	"github.com/jrasky/bis/internal/search"
	"github.com/jrasky/bis/internal/term"
	"github.com/jrasky/bis/internal/termcap"
)

const (
	charEOT   = 0x04
	charBell  = 0x07
	charClear = 0x15

	// queryBacklog bounds how many unanswered queries can pile up while
	// the search worker is busy. Newer keystrokes evict older queries.
	queryBacklog = 32
)

// IOError reports a failed write to the terminal.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "ui: terminal write: " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// Terminal is the subset of term.TTY the session drives. Split out so
// tests can substitute a fake.
type Terminal interface {
	Prepare() error
	Restore() error
	WindowSize() (term.Size, error)
	MaskInterrupt()
	WaitInterrupt() error
	InjectInput(data []byte) error
}

type sessionState int

const (
	stateRunning sessionState = iota
	stateAccepted
	stateCancelled
)

// Options configures a Session. Terminal, Control, and Base are
// required; Input and Output default to the process terminal in
// cmd/bis and to test doubles elsewhere.
type Options struct {
	Terminal Terminal
	Control  *termcap.Control
	Base     *search.Base
	Input    io.Reader
	Output   io.Writer
	Prompt   string
	Logger   *slog.Logger
}

// Session is a single interactive search over a prepared Base.
type Session struct {
	term   Terminal
	ctl    *termcap.Control
	base   *search.Base
	in     io.Reader
	out    *bufio.Writer
	prompt string
	log    *slog.Logger

	cols    int
	state   sessionState
	query   []rune
	best    string
	hasBest bool
}

func NewSession(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{
		term:   opts.Terminal,
		ctl:    opts.Control,
		base:   opts.Base,
		in:     opts.Input,
		out:    bufio.NewWriter(opts.Output),
		prompt: opts.Prompt,
		log:    log,
	}
}

// Run drives the session to completion. The terminal is restored on
// every exit path; render errors and restore errors are aggregated.
func (s *Session) Run() error {
	size, err := s.term.WindowSize()
	if err != nil {
		return err
	}
	s.cols = size.Cols

	if err := s.term.Prepare(); err != nil {
		return err
	}
	s.term.MaskInterrupt()

	queries := make(chan string, queryBacklog)
	results := make(chan []string, queryBacklog+1)
	chars := make(chan rune)
	stopInput := make(chan struct{})
	interrupted := make(chan struct{}, 1)

	go searchWorker(s.base, queries, results)
	go inputWorker(s.in, chars, stopInput)
	go func() {
		if err := s.term.WaitInterrupt(); err == nil {
			interrupted <- struct{}{}
		}
	}()

	runErr := s.react(queries, results, chars, interrupted)
	close(queries)

	if runErr == nil && s.state == stateAccepted && s.hasBest {
		runErr = s.replaceLine(stopInput, chars)
	}

	finishErr := s.finish()
	restoreErr := s.term.Restore()

	var result *multierror.Error
	result = multierror.Append(result, runErr, finishErr, restoreErr)
	return result.ErrorOrNil()
}

func (s *Session) react(queries chan string, results <-chan []string, chars <-chan rune, interrupted <-chan struct{}) error {
	if err := s.drawPrompt(); err != nil {
		return err
	}
	for s.state == stateRunning {
		select {
		case <-interrupted:
			s.log.Debug("interrupted")
			s.state = stateCancelled
		case matches, ok := <-results:
			if !ok {
				s.state = stateCancelled
				continue
			}
			s.renderMatches(matches)
		case ch, ok := <-chars:
			if !ok {
				s.state = stateCancelled
				continue
			}
			s.handleChar(ch, queries)
		}
		if err := s.flush(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) handleChar(ch rune, queries chan string) {
	switch {
	case ch == '\n' || ch == '\r':
		s.state = stateAccepted
	case ch == charEOT:
		s.state = stateCancelled
	case ch == charClear:
		s.clearQuery()
	case unicode.IsControl(ch):
		s.writeString(string(rune(charBell)))
	default:
		s.appendRune(ch, queries)
	}
}

func (s *Session) clearQuery() {
	if w := runewidth.StringWidth(string(s.query)); w > 0 {
		s.writeString(s.ctl.Get(termcap.CursorBack, w))
	}
	s.writeString(s.ctl.Get(termcap.SaveCursor))
	s.writeString(s.ctl.Get(termcap.ClearToEnd))
	s.query = nil
	s.best = ""
	s.hasBest = false
}

func (s *Session) appendRune(ch rune, queries chan string) {
	width := runewidth.StringWidth(s.prompt) +
		runewidth.StringWidth(string(s.query)) +
		runewidth.RuneWidth(ch)
	if width >= s.cols {
		s.writeString(string(rune(charBell)))
		return
	}
	s.query = append(s.query, ch)
	s.writeString(string(ch))
	s.writeString(s.ctl.Get(termcap.SaveCursor))
	s.writeString(s.ctl.Get(termcap.ClearToEnd))
	s.sendQuery(queries, string(s.query))
}

// sendQuery never blocks the reactor: when the backlog is full the
// oldest pending query is evicted, since only the answer to the newest
// query matters.
func (s *Session) sendQuery(queries chan string, q string) {
	select {
	case queries <- q:
		return
	default:
	}
	select {
	case <-queries:
	default:
	}
	select {
	case queries <- q:
	default:
		s.log.Debug("query dropped", "query", q)
	}
}

func searchWorker(base *search.Base, queries <-chan string, results chan<- []string) {
	for q := range queries {
		results <- base.Query(q)
	}
}

// inputWorker reads runes until stop closes. The check is racy on
// purpose: a reader blocked in ReadRune is woken by the space the
// accept path injects, after which the stop check fires and the
// channel closes.
func inputWorker(r io.Reader, chars chan<- rune, stop <-chan struct{}) {
	defer close(chars)
	in := bufio.NewReader(r)
	for {
		select {
		case <-stop:
			return
		default:
		}
		ch, _, err := in.ReadRune()
		if err != nil {
			return
		}
		select {
		case <-stop:
			return
		case chars <- ch:
		}
	}
}

// replaceLine pushes the accepted line into the terminal input queue.
// The injected space unblocks the input worker; its channel is drained
// to completion before the real text goes in, so the worker cannot
// consume the line's own bytes.
func (s *Session) replaceLine(stopInput chan<- struct{}, chars <-chan rune) error {
	close(stopInput)
	if err := s.term.InjectInput([]byte(" ")); err != nil {
		s.log.Error("inject nudge failed", "error", err)
		return err
	}
	for range chars {
	}
	if err := s.term.InjectInput([]byte(s.best)); err != nil {
		s.log.Error("inject text failed", "error", err)
		return err
	}
	return nil
}

// finish draws the closing line and releases the display block.
func (s *Session) finish() error {
	if s.hasBest && s.state != stateCancelled {
		s.writeString(" -> ")
		s.writeString(s.displayLine(s.best))
	}
	s.writeString(s.ctl.Get(termcap.ClearToEnd))
	s.writeString("\n")
	return s.flush()
}
