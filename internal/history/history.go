package history

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jrasky/bis/internal/pathutil"
)

// maxLineBytes bounds a single history entry; anything longer is a
// corrupt file, not a command.
const maxLineBytes = 1 << 20

// ErrNoHistFile is returned when no history location can be resolved.
var ErrNoHistFile = errors.New("history: HISTFILE is not set")

// Line is one unique history entry together with its recency factor.
// Higher factors are more recent.
type Line struct {
	Text   string
	Factor int
}

// Path resolves the history file location: an explicit override first,
// then $HISTFILE. A leading ~ is expanded either way.
func Path(override string) (string, error) {
	if override != "" {
		return pathutil.Expand(override), nil
	}
	if p := os.Getenv("HISTFILE"); p != "" {
		return pathutil.Expand(p), nil
	}
	return "", ErrNoHistFile
}

// Read loads newline-delimited history from path. Every physical line
// advances the recency factor; duplicate text keeps only the latest
// factor.
func Read(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("history: read %s: %w", path, err)
	}
	return lines, nil
}

// Parse reads history lines from r, tolerating a UTF-8 BOM or a UTF-16
// encoded file. Results are ordered by ascending factor.
func Parse(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(decoded(bufio.NewReader(r)))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	factors := make(map[string]int)
	factor := -1
	for scanner.Scan() {
		factor++
		factors[scanner.Text()] = factor
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(factors))
	for text, f := range factors {
		lines = append(lines, Line{Text: text, Factor: f})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Factor < lines[j].Factor })
	return lines, nil
}

// decoded sniffs a byte-order mark and wraps r with the matching
// decoder. Without a BOM the bytes are passed through as UTF-8.
func decoded(r *bufio.Reader) io.Reader {
	head, err := r.Peek(2)
	if err == nil {
		switch {
		case head[0] == 0xFF && head[1] == 0xFE:
			return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
		case head[0] == 0xFE && head[1] == 0xFF:
			return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
		}
	}
	if head, err := r.Peek(3); err == nil && bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = r.Discard(3)
	}
	return r
}
