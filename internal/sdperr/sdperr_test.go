package sdperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOfUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := New(KindMalformed, "MODE SENSE(10)", base)
	wrapped := fmt.Errorf("context: %w", err)
	if KindOf(wrapped) != KindMalformed {
		t.Fatalf("KindOf = %v, want KindMalformed", KindOf(wrapped))
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("errors.Is should see through to base")
	}
}

func TestExitCodeZeroForNone(t *testing.T) {
	if KindNone.ExitCode() != 0 {
		t.Fatalf("KindNone.ExitCode() = %d, want 0", KindNone.ExitCode())
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := New(KindTransportIllegalRequest, "MODE SELECT(6)", errors.New("bad field"))
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty message")
	}
	if !strings.Contains(msg, "MODE SELECT(6)") {
		t.Fatalf("message %q does not name the op", msg)
	}
}
