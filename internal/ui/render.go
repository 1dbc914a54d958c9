package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/jrasky/bis/internal/search"
	"github.com/jrasky/bis/internal/termcap"
	"github.com/jrasky/bis/internal/textutil"
)

// drawPrompt reserves the display block under the prompt. Printing
// newlines at the bottom of the screen scrolls instead of clipping, so
// the match area is guaranteed to exist before the cursor moves back
// up to the prompt row.
func (s *Session) drawPrompt() error {
	for range search.MatchNumber {
		s.writeString("\n")
	}
	s.writeString(s.ctl.Get(termcap.CursorUp, search.MatchNumber))
	s.writeString(s.prompt)
	s.writeString(s.ctl.Get(termcap.SaveCursor))
	return s.flush()
}

// renderMatches replaces the display block with the given matches, best
// first, and puts the cursor back at the end of the query.
func (s *Session) renderMatches(matches []string) {
	if len(matches) > 0 {
		s.best = matches[0]
		s.hasBest = true
	} else {
		s.best = ""
		s.hasBest = false
	}

	s.writeString(s.ctl.Get(termcap.ClearToEnd))
	for _, match := range matches {
		s.writeString("\n")
		s.writeString(s.displayLine(match))
	}
	s.writeString(s.ctl.Get(termcap.RestoreCursor))
}

// displayLine makes a history line safe and narrow enough to print on
// one terminal row.
func (s *Session) displayLine(text string) string {
	clean := textutil.SanitizeTerminalText(text)
	if s.cols > 0 {
		clean = runewidth.Truncate(clean, s.cols, "")
	}
	return clean
}

// writeString appends to the output buffer. bufio latches the first
// error, so failures surface on the next flush.
func (s *Session) writeString(text string) {
	_, _ = s.out.WriteString(text)
}

func (s *Session) flush() error {
	if err := s.out.Flush(); err != nil {
		return &IOError{Err: err}
	}
	return nil
}
