package pathutil

import (
	"path/filepath"
	"testing"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "tilde prefix", path: "~/docs/scripts", want: filepath.Join(home, "docs/scripts")},
		{name: "bare tilde", path: "~", want: home},
		{name: "absolute untouched", path: "/etc/profile", want: "/etc/profile"},
		{name: "interior tilde untouched", path: "/tmp/~x", want: "/tmp/~x"},
		{name: "other user untouched", path: "~root/x", want: "~root/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.path); got != tt.want {
				t.Fatalf("Expand(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCondense(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "under home", path: filepath.Join(home, "docs/scripts"), want: "~/docs/scripts"},
		{name: "home itself", path: home, want: "~"},
		{name: "outside home", path: "/etc/profile", want: "/etc/profile"},
		{name: "parent of home", path: filepath.Dir(home), want: filepath.Dir(home)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Condense(tt.path); got != tt.want {
				t.Fatalf("Condense(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestExpandCondenseRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := "~/work/project"
	if got := Condense(Expand(path)); got != path {
		t.Fatalf("Condense(Expand(%q)) = %q", path, got)
	}
}
