package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand rewrites a leading "~" to the user's home directory. Paths
// without the prefix, and paths for users other than the current one,
// are returned unchanged.
func Expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Condense is the inverse of Expand: paths under the home directory are
// rewritten to start with "~".
func Condense(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return filepath.Join("~", rel)
}
