// Package shellsetup emits the shell snippet that binds the search to
// Ctrl-R. Intended use is eval'ing the output from a shell rc file.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

// PrintSetup writes the key binding snippet for the given shell, or for
// a detected shell when shellOverride is empty.
func PrintSetup(w io.Writer, shellOverride string) error {
	shell := normalizeShellName(shellOverride)
	if shell == "" {
		shell = detectShellInternal(os.Getenv)
	}

	exe, err := os.Executable()
	if err != nil {
		exe = "bis"
	}
	quoted := strconv.Quote(exe)

	snippet, err := snippetFor(shell, quoted)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, snippet)
	return err
}

func snippetFor(shell, quoted string) (string, error) {
	switch shell {
	case "bash", "sh", "ksh":
		return fmt.Sprintf(`_bis_search() {
    command %s
}
bind -x '"\C-r": _bis_search'
`, quoted), nil
	case "zsh":
		return fmt.Sprintf(`_bis_search() {
    command %s </dev/tty
    zle reset-prompt
}
zle -N _bis_search
bindkey '^R' _bis_search
`, quoted), nil
	case "fish":
		return fmt.Sprintf(`function _bis_search
    command %s
    commandline -f repaint
end
bind \cr _bis_search
`, quoted), nil
	default:
		return "", fmt.Errorf("shellsetup: unsupported shell %q", shell)
	}
}

func detectShellInternal(getenv func(string) string) string {
	if shell := normalizeShellName(getenv("SHELL")); shell != "" {
		return shell
	}
	return "bash"
}

func normalizeShellName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.Trim(value, `"'`)
	base := strings.ToLower(path.Base(value))
	return strings.TrimSpace(base)
}
