package termcap

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xo/terminfo"
)

// Capability names (terminfo short names) the session uses.
const (
	CursorUp      = "cuu"
	CursorBack    = "cub"
	SaveCursor    = "sc"
	RestoreCursor = "rc"
	ClearToEnd    = "ed"
)

// Control resolves and evaluates the cursor and erase capabilities the
// session needs. Only the parameter operators those capabilities use are
// implemented; anything outside that subset degrades to an empty string
// so callers can no-op instead of aborting the session.
type Control struct {
	caps map[string]string
	log  *slog.Logger
}

// FromEnv loads the capability table for the terminal named by $TERM.
func FromEnv(log *slog.Logger) (*Control, error) {
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("termcap: load terminfo: %w", err)
	}

	caps := make(map[string]string)
	for name, value := range ti.StringCapsShort() {
		if len(value) == 0 {
			continue
		}
		caps[name] = string(value)
	}
	return New(caps, log), nil
}

// New builds a Control over an explicit capability table. Mostly useful
// for tests.
func New(caps map[string]string, log *slog.Logger) *Control {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Control{caps: caps, log: log}
}

// Get evaluates the named capability with the given parameters. The
// supported template operators are literal passthrough, %d (pop an
// operand and print it in decimal) and %pN (push the Nth 1-based
// parameter). Unknown names, unsupported escapes, and operand underflow
// are recorded and yield "".
func (c *Control) Get(name string, params ...int) string {
	seq, ok := c.caps[name]
	if !ok {
		c.log.Debug("no capability string", "name", name)
		return ""
	}

	var (
		out     strings.Builder
		stack   []int
		escaped bool
		param   bool
	)
	for _, r := range seq {
		switch {
		case !escaped:
			if r == '%' {
				escaped = true
			} else {
				out.WriteRune(r)
			}
		case !param:
			switch r {
			case 'd':
				if len(stack) == 0 {
					c.log.Debug("operand stack empty on print", "name", name)
					return ""
				}
				out.WriteString(strconv.Itoa(stack[len(stack)-1]))
				stack = stack[:len(stack)-1]
				escaped = false
			case 'p':
				param = true
			default:
				c.log.Debug("unsupported escape", "name", name, "escape", string(r))
				return ""
			}
		default:
			n := int(r - '0')
			if n < 1 || n > 9 || n > len(params) {
				c.log.Debug("bad parameter reference", "name", name, "ref", string(r))
				return ""
			}
			stack = append(stack, params[n-1])
			param = false
			escaped = false
		}
	}
	return out.String()
}
