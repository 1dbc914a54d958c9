package term

import (
	"errors"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Op: "prepare", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Error should unwrap to the inner error")
	}
	if got := err.Error(); got != "term: prepare: boom" {
		t.Errorf("Error() = %q", got)
	}
}
