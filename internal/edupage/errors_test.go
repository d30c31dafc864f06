package edupage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := newError(KindBadCredentials, "login rejected", nil)
	if !errors.Is(err, &Error{Kind: KindBadCredentials}) {
		t.Fatal("expected match by kind")
	}
	if errors.Is(err, &Error{Kind: KindCaptcha}) {
		t.Fatal("expected no match for a different kind")
	}
}

func TestNewErrorClassifiesTransportCauses(t *testing.T) {
	err := newError(KindServer, "fetch timeline", context.DeadlineExceeded)
	if err.Kind != KindTimeout {
		t.Fatalf("expected timeout kind, got %s", err.Kind)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected cause to stay unwrappable")
	}

	err = newError(KindBadCredentials, "login rejected", context.DeadlineExceeded)
	if err.Kind != KindBadCredentials {
		t.Fatalf("expected explicit kind preserved, got %s", err.Kind)
	}
}

func TestHintFor(t *testing.T) {
	wrapped := fmt.Errorf("get_grades: %w", newError(KindNotLoggedIn, "no session", nil))
	if hint := HintFor(wrapped); hint == "" {
		t.Fatal("expected hint through the wrap")
	}
	if hint := HintFor(errors.New("plain")); hint != "" {
		t.Fatalf("expected no hint for foreign error, got %q", hint)
	}
}

func TestExtractBetween(t *testing.T) {
	payload := `window.userhome({"userid": "123"});`
	got, ok := extractBetween(payload, "userhome(", ");")
	if !ok || got != `{"userid": "123"}` {
		t.Fatalf("unexpected extraction: %q, %v", got, ok)
	}
	if _, ok := extractBetween(payload, "missing(", ");"); ok {
		t.Fatal("expected no match for absent opener")
	}
	if _, ok := extractBetween(payload, "userhome(", "]]"); ok {
		t.Fatal("expected no match for absent closer")
	}
}

func TestSchoolYearRollsOverInAugust(t *testing.T) {
	if got := schoolYear(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)); got != 2026 {
		t.Fatalf("expected 2026, got %d", got)
	}
	if got := schoolYear(time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)); got != 2025 {
		t.Fatalf("expected 2025, got %d", got)
	}
	if got := schoolYear(time.Date(2027, time.January, 10, 0, 0, 0, 0, time.UTC)); got != 2026 {
		t.Fatalf("expected 2026, got %d", got)
	}
}
